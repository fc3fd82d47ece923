package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Agrid-Dev/boilercalc/internal/device"
	"github.com/Agrid-Dev/boilercalc/internal/params"
	"github.com/Agrid-Dev/boilercalc/internal/ports"
	"github.com/Agrid-Dev/boilercalc/internal/thermal"
)

type Options struct {
	// Store backs the /v1/parameters endpoints. They answer 404 when nil.
	Store ports.ParameterStore
	// Metrics is served on GET /metrics when set.
	Metrics http.Handler
	Logger  *zap.Logger
}

type Server struct {
	calc  ports.Calculator
	dev   *device.Device
	store ports.ParameterStore
	log   *zap.Logger
	srv   *http.Server
}

// New returns a runnable server.
func New(calc ports.Calculator, dev *device.Device, addr string, opts Options) *Server {
	mux := http.NewServeMux()
	s := &Server{calc: calc, dev: dev, store: opts.Store, log: opts.Logger}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	// Read
	mux.HandleFunc("GET /v1", s.handleGet)

	// Solvers: one endpoint each
	for _, solver := range thermal.Solvers() {
		mux.HandleFunc("POST /v1/"+solver.String(), s.handleSolve(solver))
	}

	// Parameters
	mux.HandleFunc("POST /v1/parameters", s.handlePostParameters)
	mux.HandleFunc("GET /v1/parameters", s.handleListParameters)
	mux.HandleFunc("GET /v1/parameters/defaults", s.handleGetDefaults)
	mux.HandleFunc("POST /v1/parameters/defaults", s.handleResetDefaults)
	mux.HandleFunc("GET /v1/parameters/{name}", s.handleGetSnapshot)
	mux.HandleFunc("PUT /v1/parameters/{name}", s.handlePutSnapshot)
	mux.HandleFunc("POST /v1/parameters/{name}/load", s.handleLoadSnapshot)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

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
		s.log.Info("http listening", zap.String("addr", s.srv.Addr))
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

type parametersDTO struct {
	DeviceID  string        `json:"device_id"`
	Name      string        `json:"name,omitempty"`
	Values    params.Values `json:"values"`
	Snapshots []string      `json:"snapshots,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// ---- Handlers ----

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request) {
	s.respondValues(w, "", s.dev.Values(), nil)
}

func (s *Server) handleSolve(solver thermal.Solver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// body: {"initial_temp": 50, "heater_power": "2500"}
		fields, err := decodeFields(r.Body)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}

		values, err := s.dev.Resolve(solver, fields)
		if err != nil {
			s.writeSolveErr(w, err)
			return
		}

		rec, err := s.calc.Run(solver, values)
		if err != nil {
			s.writeSolveErr(w, err)
			return
		}

		rec["device_id"] = s.dev.ID
		rec["request_id"] = uuid.NewString()
		rec["solver"] = solver.String()
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handlePostParameters(w http.ResponseWriter, r *http.Request) {
	// body: {"ht_heater_power": 2500, "ct_final_temp": 45}
	fields, err := decodeFields(r.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.dev.Update(fields); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondValues(w, "", s.dev.Values(), nil)
}

func (s *Server) handleListParameters(w http.ResponseWriter, _ *http.Request) {
	dto := parametersDTO{DeviceID: s.dev.ID, Values: s.dev.Values()}
	if s.store != nil {
		names, err := s.store.Names()
		if err != nil {
			s.log.Warn("list snapshots", zap.Error(err))
		}
		dto.Snapshots = names
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleGetDefaults(w http.ResponseWriter, _ *http.Request) {
	if !s.requireStore(w) {
		return
	}
	v, warns := s.store.Defaults()
	s.respondValues(w, "", v, warns)
}

func (s *Server) handleResetDefaults(w http.ResponseWriter, _ *http.Request) {
	if !s.requireStore(w) {
		return
	}
	v, warns := s.store.Defaults()
	s.dev.Replace(v)
	s.log.Info("parameters reset to defaults", zap.String("device_id", s.dev.ID))
	s.respondValues(w, "", s.dev.Values(), warns)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name := r.PathValue("name")
	v, warns, err := s.store.Load(name)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	s.respondValues(w, name, v, warns)
}

func (s *Server) handlePutSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name := r.PathValue("name")
	v := s.dev.Values()
	if err := s.store.Save(name, v); err != nil {
		writeStoreErr(w, err)
		return
	}
	s.log.Info("snapshot saved", zap.String("name", name))
	s.respondValues(w, name, v, nil)
}

func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name := r.PathValue("name")
	v, warns, err := s.store.Load(name)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	s.dev.Replace(v)
	s.log.Info("snapshot loaded", zap.String("name", name))
	s.respondValues(w, name, s.dev.Values(), warns)
}

// ---- generic helpers ----

func (s *Server) respondValues(w http.ResponseWriter, name string, v params.Values, warns []error) {
	dto := parametersDTO{DeviceID: s.dev.ID, Name: name, Values: v}
	for _, err := range warns {
		dto.Warnings = append(dto.Warnings, err.Error())
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeErr(w, http.StatusNotFound, "parameter store not configured")
		return false
	}
	return true
}

func (s *Server) writeSolveErr(w http.ResponseWriter, err error) {
	if errors.Is(err, thermal.ErrInvalidParameters) {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error("solver failed", zap.Error(err))
	writeErr(w, http.StatusInternalServerError, err.Error())
}

func writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, params.ErrSnapshotNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, params.ErrInvalidSnapshotName):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeFields reads a flat JSON object of numbers (or numeric strings).
// An empty body yields no fields.
func decodeFields(body io.Reader) (map[string]float64, error) {
	var raw map[string]any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]float64{}, nil
		}
		return nil, errors.New("invalid json")
	}
	fields := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := params.ParseFloat(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = f
	}
	return fields, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
