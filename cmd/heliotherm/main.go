package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/heliotherm-dev/heliotherm/cmd/app"
	httpctrl "github.com/heliotherm-dev/heliotherm/internal/controllers/http"
	kafkactrl "github.com/heliotherm-dev/heliotherm/internal/controllers/kafka"
	modbusctrl "github.com/heliotherm-dev/heliotherm/internal/controllers/modbus"
	mqttctrl "github.com/heliotherm-dev/heliotherm/internal/controllers/mqtt"
	"github.com/heliotherm-dev/heliotherm/internal/device"
	"github.com/heliotherm-dev/heliotherm/internal/log"
	"github.com/heliotherm-dev/heliotherm/internal/simulator"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file (.yaml/.yml/.json)")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := log.Init(cfg.Logging.Debug); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer log.Sync()

	sim, err := simulator.New(cfg.Simulation.Params())
	if err != nil {
		log.Fatalf("start simulator: %v", err)
	}
	dev := device.New(cfg.DeviceID, sim)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errc := make(chan error, 4)

	if cfg.Controllers.HTTP.Enabled {
		srv := httpctrl.New(dev.S, cfg.Controllers.HTTP.Addr, dev.ID)
		log.Infof("http controller listening on %s", cfg.Controllers.HTTP.Addr)
		go func() { errc <- srv.Run(ctx) }()
	}

	if cfg.Controllers.MQTT.Enabled {
		c, err := mqttctrl.New(dev.S, mqttctrl.Config{
			DeviceID:        dev.ID,
			BrokerURL:       cfg.Controllers.MQTT.BrokerURL,
			ClientID:        cfg.Controllers.MQTT.ClientID,
			BaseTopic:       cfg.Controllers.MQTT.BaseTopic,
			QoS:             cfg.Controllers.MQTT.QoS,
			RetainSnapshot:  cfg.Controllers.MQTT.RetainSnapshot,
			PublishInterval: cfg.Controllers.MQTT.PublishInterval,
			Username:        cfg.Controllers.MQTT.Username,
			Password:        cfg.Controllers.MQTT.Password,
		})
		if err != nil {
			log.Fatalf("mqtt controller: %v", err)
		}
		log.Infof("mqtt controller connecting to %s", cfg.Controllers.MQTT.BrokerURL)
		go func() { errc <- c.Run(ctx) }()
	}

	if cfg.Controllers.Modbus.Enabled {
		c, err := modbusctrl.New(dev.S, modbusctrl.Config{
			DeviceID:     dev.ID,
			Addr:         cfg.Controllers.Modbus.Addr,
			UnitID:       cfg.Controllers.Modbus.UnitID,
			SyncInterval: cfg.Controllers.Modbus.SyncInterval,
		})
		if err != nil {
			log.Fatalf("modbus controller: %v", err)
		}
		log.Infof("modbus controller listening on %s", cfg.Controllers.Modbus.Addr)
		go func() { errc <- c.Run(ctx) }()
	}

	if cfg.Controllers.Kafka.Enabled {
		c, err := kafkactrl.New(dev.S, kafkactrl.Config{
			DeviceID:     dev.ID,
			Brokers:      cfg.Controllers.Kafka.Brokers,
			Topic:        cfg.Controllers.Kafka.Topic,
			PollInterval: cfg.Controllers.Kafka.PollInterval,
		})
		if err != nil {
			log.Fatalf("kafka publisher: %v", err)
		}
		log.Infof("kafka publisher writing to %v", cfg.Controllers.Kafka.Brokers)
		go func() { errc <- c.Run(ctx) }()
	}

	// First controller error wins; a clean shutdown surfaces as context.Canceled.
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("controller exited: %v", err)
		os.Exit(1)
	}
}
