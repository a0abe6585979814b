package modbusctrl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	mbserver "github.com/tbrandon/mbserver"

	"github.com/heliotherm-dev/heliotherm/internal/ports"
	"github.com/heliotherm-dev/heliotherm/internal/simulator"
	"github.com/heliotherm-dev/heliotherm/internal/solar"
)

// Config for the Modbus controller.
type Config struct {
	DeviceID string
	Addr     string
	UnitID   byte // UnitID (Modbus slave/unit ID). Use an integer 1..247.
	// SyncInterval retained in config to preserve API but unused when reads are handled by custom handlers.
	SyncInterval time.Duration
}

type Controller struct {
	svc ports.SimulatorService
	cfg Config

	serv *mbserver.Server
}

// Register map. Every value is an IEEE-754 float32 spread big-endian across
// two consecutive registers, so parameter i lives at holding registers
// [2i, 2i+1] in solar.ParamNames() order, and summary aggregate i at input
// registers [2i, 2i+1].
const regsPerValue = 2

func New(svc ports.SimulatorService, cfg Config) (*Controller, error) {
	if cfg.UnitID == 0 {
		return nil, errors.New("modbus: UnitID is required (non-zero)")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:1502"
	}
	// SyncInterval is optional; no polling is required because reads are handled directly.
	return &Controller{svc: svc, cfg: cfg}, nil
}

// Run starts the Modbus server and registers handlers that apply writes
// immediately and serve reads directly from the simulator service. It blocks
// until ctx is canceled.
func (c *Controller) Run(ctx context.Context) error {
	serv := mbserver.NewServer()
	c.serv = serv

	paramNames := solar.ParamNames()
	paramRegs := len(paramNames) * regsPerValue
	summaryRegs := summaryValueCount * regsPerValue

	// Register handlers BEFORE starting the TCP listener to avoid races inside mbserver
	// between handler registration and the server's goroutines.

	// Read Holding Registers (function 3) - current parameter values.
	serv.RegisterFunctionHandler(3, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := int(binary.BigEndian.Uint16(data[0:2]))
		qty := int(binary.BigEndian.Uint16(data[2:4]))
		if qty == 0 || qty > 125 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start < 0 || start+qty > paramRegs {
			return []byte{}, &mbserver.IllegalDataAddress
		}

		params := c.svc.Params()
		regs := make([]uint16, paramRegs)
		for i, name := range paramNames {
			v, _ := params.Get(name)
			regs[i*2], regs[i*2+1] = encodeFloat(v)
		}

		byteCount := qty * 2
		resp := make([]byte, 1+byteCount)
		resp[0] = byte(byteCount)
		for i := 0; i < qty; i++ {
			binary.BigEndian.PutUint16(resp[1+i*2:1+i*2+2], regs[start+i])
		}
		return resp, &mbserver.Success
	})

	// Read Input Registers (function 4) - latest run aggregates.
	serv.RegisterFunctionHandler(4, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := int(binary.BigEndian.Uint16(data[0:2]))
		qty := int(binary.BigEndian.Uint16(data[2:4]))
		if qty == 0 || qty > 125 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start < 0 || start+qty > summaryRegs {
			return []byte{}, &mbserver.IllegalDataAddress
		}

		regs := make([]uint16, summaryRegs)
		for i, v := range summaryValues(c.svc.Get()) {
			regs[i*2], regs[i*2+1] = encodeFloat(v)
		}

		byteCount := qty * 2
		resp := make([]byte, 1+byteCount)
		resp[0] = byte(byteCount)
		for i := 0; i < qty; i++ {
			binary.BigEndian.PutUint16(resp[1+i*2:1+i*2+2], regs[start+i])
		}
		return resp, &mbserver.Success
	})

	// Write Single Register (function 6) - unsupported: every value spans
	// two registers, so half-writes are rejected outright.
	serv.RegisterFunctionHandler(6, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		return []byte{}, &mbserver.IllegalFunction
	})

	// Write Multiple Registers (function 16) - whole float32 pairs only.
	serv.RegisterFunctionHandler(16, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		d := frame.GetData()
		if len(d) < 5 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := int(binary.BigEndian.Uint16(d[0:2]))
		quantity := int(binary.BigEndian.Uint16(d[2:4]))
		byteCount := int(d[4])
		if byteCount != quantity*2 || len(d) < 5+byteCount {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start%regsPerValue != 0 || quantity == 0 || quantity%regsPerValue != 0 {
			return []byte{}, &mbserver.IllegalDataAddress
		}
		if start+quantity > paramRegs {
			return []byte{}, &mbserver.IllegalDataAddress
		}

		for i := 0; i < quantity/regsPerValue; i++ {
			hi := binary.BigEndian.Uint16(d[5+i*4 : 5+i*4+2])
			lo := binary.BigEndian.Uint16(d[5+i*4+2 : 5+i*4+4])
			name := paramNames[start/regsPerValue+i]
			if err := c.svc.SetParam(name, decodeFloat(hi, lo)); err != nil {
				return []byte{}, &mbserver.IllegalDataValue
			}
		}

		resp := make([]byte, 4)
		binary.BigEndian.PutUint16(resp[0:2], uint16(start))
		binary.BigEndian.PutUint16(resp[2:4], uint16(quantity))
		return resp, &mbserver.Success
	})

	// Now start listening after all handlers are registered.
	if err := serv.ListenTCP(c.cfg.Addr); err != nil {
		return fmt.Errorf("mbserver listen tcp %s: %w", c.cfg.Addr, err)
	}

	// Block until ctx.Done()
	<-ctx.Done()
	serv.Close()
	return ctx.Err()
}

// Input-register layout of the latest run.
const summaryValueCount = 6

func summaryValues(snap simulator.Snapshot) []float64 {
	return []float64{
		snap.Summary.PeakTankTemp,
		snap.Summary.FinalTankTemp,
		snap.Summary.MeanTankTemp,
		snap.Summary.PeakHeatIn,
		snap.Summary.EnergyCollected,
		snap.Summary.EnergyLost,
	}
}

func encodeFloat(v float64) (hi, lo uint16) {
	bits := math.Float32bits(float32(v))
	return uint16(bits >> 16), uint16(bits)
}

func decodeFloat(hi, lo uint16) float64 {
	return float64(math.Float32frombits(uint32(hi)<<16 | uint32(lo)))
}
