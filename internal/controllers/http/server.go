package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/heliotherm-dev/heliotherm/internal/ports"
	"github.com/heliotherm-dev/heliotherm/internal/simulator"
	"github.com/heliotherm-dev/heliotherm/internal/solar"
)

type Server struct {
	svc      ports.SimulatorService
	srv      *http.Server
	deviceID string
}

// New returns a runnable server.
func New(svc ports.SimulatorService, addr string, deviceID string) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc, deviceID: deviceID}

	// Read
	mux.HandleFunc("GET /v1", s.handleGet)
	mux.HandleFunc("GET /v1/series", s.handleGetSeries)
	mux.HandleFunc("GET /v1/irradiance", s.handleGetIrradiance)
	mux.HandleFunc("GET /v1/panel", s.handleGetPanel)
	mux.HandleFunc("GET /v1/tank", s.handleGetTank)

	// Write: one endpoint per parameter, addressed by name
	mux.HandleFunc("POST /v1/params/{name}", s.handlePostParam)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ---- DTOs ----

type snapshotDTO struct {
	DeviceID  string             `json:"device_id"`
	RunID     string             `json:"run_id"`
	UpdatedAt time.Time          `json:"updated_at"`
	Params    map[string]float64 `json:"params"`
	Summary   solar.Summary      `json:"summary"`
}

func toDTO(snap simulator.Snapshot) snapshotDTO {
	return snapshotDTO{
		RunID:     snap.RunID,
		UpdatedAt: snap.UpdatedAt,
		Params:    snap.Params.Map(),
		Summary:   snap.Summary,
	}
}

// ---- Handlers ----

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request) {
	s.respondSnapshot(w)
}

func (s *Server) handleGetSeries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Result())
}

func (s *Server) handleGetIrradiance(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Result().Irradiance)
}

func (s *Server) handleGetPanel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Result().Panel)
}

func (s *Server) handleGetTank(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Result().Tank)
}

func (s *Server) handlePostParam(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetParam(name, v)
	})
}

// ---- generic helpers ----

func (s *Server) respondSnapshot(w http.ResponseWriter) {
	dto := toDTO(s.svc.Get())
	dto.DeviceID = s.deviceID
	writeJSON(w, http.StatusOK, dto)
}

func postValue[T any](s *Server, w http.ResponseWriter, r *http.Request, apply func(T) error) {
	dec := json.NewDecoder(r.Body)
	var req struct {
		Value *T `json:"value"`
	}
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Value == nil {
		writeErr(w, http.StatusBadRequest, "missing field 'value'")
		return
	}

	if err := apply(*req.Value); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondSnapshot(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
