// Package ui exposes stored analysis runs and the pipeline over HTTP.
package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"diffexpr/app"
	"diffexpr/domain/core"
	"diffexpr/internal"
	"diffexpr/internal/errors"
	"diffexpr/ports"
)

// App represents the HTTP application
type App struct {
	router   *chi.Mux
	repo     ports.RunRepository
	pipeline *app.PipelineService
	log      *internal.Logger
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates a new HTTP application
func NewApp(repo ports.RunRepository, pipeline *app.PipelineService) *App {
	a := &App{
		router:   chi.NewRouter(),
		repo:     repo,
		pipeline: pipeline,
		log:      internal.DefaultLogger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Router returns the HTTP handler, for serving and for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start blocks serving HTTP on the configured port.
func (a *App) Start(cfg Config) error {
	a.log.Info("listening on :%s", cfg.Port)
	return http.ListenAndServe(":"+cfg.Port, a.router)
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

func (a *App) setupRoutes() {
	a.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.router.Route("/api", func(r chi.Router) {
		r.Get("/runs", a.handleListRuns)
		r.Post("/runs", a.handleCreateRun)
		r.Get("/runs/{runID}", a.handleGetRun)
		r.Get("/runs/{runID}/results", a.handleGetResults)
	})
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := a.repo.ListRuns(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := a.repo.GetRun(r.Context(), core.RunID(chi.URLParam(r, "runID")))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (a *App) handleGetResults(w http.ResponseWriter, r *http.Request) {
	table, err := a.repo.GetResults(r.Context(), core.RunID(chi.URLParam(r, "runID")))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// createRunRequest describes a pipeline run over files reachable by the
// server process.
type createRunRequest struct {
	CountsPath      string `json:"counts_path"`
	MetadataPath    string `json:"metadata_path"`
	AnnotationsPath string `json:"annotations_path,omitempty"`
	ActionablePath  string `json:"actionable_path,omitempty"`
	OutDir          string `json:"out_dir"`
	SkipPlots       bool   `json:"skip_plots,omitempty"`
}

func (a *App) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errors.InvalidInput("request body must be valid JSON"))
		return
	}
	if req.CountsPath == "" || req.MetadataPath == "" || req.OutDir == "" {
		a.writeError(w, errors.InvalidInput("counts_path, metadata_path and out_dir are required"))
		return
	}

	result, err := a.pipeline.Run(r.Context(), app.PipelineRequest{
		CountsPath:      req.CountsPath,
		MetadataPath:    req.MetadataPath,
		AnnotationsPath: req.AnnotationsPath,
		ActionablePath:  req.ActionablePath,
		OutDir:          req.OutDir,
		SkipPlots:       req.SkipPlots,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"run":     result.Run,
		"summary": result.Summary,
		"outputs": result.OutputsDir,
	})
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeSchemaError, errors.CodeUnsupportedDesign, errors.CodeMissingSamples, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": code})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
