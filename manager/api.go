package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"tsched/catalog"
	"tsched/run"
	"tsched/scheduler"
	"tsched/stats"
	"tsched/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ErrResponse struct {
	HTTPStatusCode int
	Message        string
}

type Api struct {
	Address string
	Manager *Manager
	Router  *chi.Mux

	// ctx bounds executions started through the API.
	ctx context.Context
}

func NewApi(ctx context.Context, address string, m *Manager) *Api {
	a := &Api{Address: address, Manager: m, ctx: ctx}
	a.initRouter()
	return a
}

func (a *Api) initRouter() {
	a.Router = chi.NewRouter()
	a.Router.Route("/runs", func(r chi.Router) {
		r.Post("/", a.StartRunHandler)
		r.Get("/", a.GetRunsHandler)
		r.Route("/{runID}", func(r chi.Router) {
			r.Get("/", a.GetRunHandler)
			r.Post("/execute", a.ExecuteRunHandler)
		})
	})
	a.Router.Get("/stats", a.GetStatsHandler)
}

func (a *Api) Start() error {
	log.Printf("[api] listening on %s", a.Address)
	return http.ListenAndServe(a.Address, a.Router)
}

func (a *Api) StartRunHandler(w http.ResponseWriter, r *http.Request) {
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()

	req := run.Request{}
	if err := d.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Error unmarshalling body: %v", err))
		return
	}

	created, err := a.Manager.Submit(req)
	if err != nil {
		var mErr *catalog.MalformedInputError
		var bErr *scheduler.InvalidBudgetError
		status := http.StatusInternalServerError
		if errors.As(err, &mErr) || errors.As(err, &bErr) || errors.Is(err, scheduler.ErrUnknownScheduler) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (a *Api) GetRunsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Manager.GetRuns())
}

func (a *Api) GetRunHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	found, err := a.Manager.GetRun(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

func (a *Api) ExecuteRunHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	started, err := a.Manager.BeginExecution(id)
	switch {
	case errors.Is(err, ErrNoExecutor):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeStoreError(w, err)
		return
	}

	resp := *started
	go a.Manager.FinishExecution(a.ctx, started)

	writeJSON(w, http.StatusAccepted, resp)
}

func (a *Api) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	s := stats.Get()
	if n, err := a.Manager.RunDb.Count(); err == nil {
		s.RunCount = n
	}
	log.Printf("[api] stats: %s", s)

	writeJSON(w, http.StatusOK, s)
}

func runID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "runID")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid run id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	log.Printf("[api] %d: %s", status, msg)
	writeJSON(w, status, ErrResponse{HTTPStatusCode: status, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
