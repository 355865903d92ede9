package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/Reliefmesh/api/internal/store"
	"github.com/Reliefmesh/api/internal/terrain"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Handler wires the generation pipeline to the persistence boundary.
type Handler struct {
	generator  *terrain.Generator
	store      store.Store
	genTimeout time.Duration
}

func NewHandler(generator *terrain.Generator, st store.Store, genTimeout time.Duration) *Handler {
	return &Handler{
		generator:  generator,
		store:      st,
		genTimeout: genTimeout,
	}
}

// GenerateRequest is the single command entry point: a GenerationConfig plus
// a storage key and an optional explicit seed (randomly generated if absent).
type GenerateRequest struct {
	terrain.Config
	Name      string `json:"name"`
	Seed      *int64 `json:"seed,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
	Field string `json:"field,omitempty"`
	Seed  *int64 `json:"seed,omitempty"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "reliefmesh-api",
		"version":   "1.0.0",
	})
}

// GenerateHeightmap generates a heightmap and stores it under the given name.
func (h *Handler) GenerateHeightmap(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		h.renderError(w, r, http.StatusBadRequest, ErrorResponse{Error: "name must not be empty", Stage: "config", Field: "name"})
		return
	}

	seed := rand.Int63()
	if req.Seed != nil {
		seed = *req.Seed
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.genTimeout)
	defer cancel()

	hm, err := h.generator.Generate(ctx, seed, req.Config)
	if err != nil {
		h.renderGenerationError(w, r, err)
		return
	}
	hm.Name = req.Name

	if err := h.store.Store(ctx, req.Name, hm, req.Overwrite); err != nil {
		log.Error("failed to store heightmap", "error", err, "key", req.Name, "seed", seed)
		// The heightmap was fully generated; return the seed so the client
		// can retry the store deterministically without paying for a fresh
		// generation run.
		switch {
		case errors.Is(err, store.ErrConflict):
			h.renderError(w, r, http.StatusConflict, ErrorResponse{Error: err.Error(), Stage: "store", Seed: &seed})
		case errors.Is(err, store.ErrUnavailable):
			h.renderError(w, r, http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable", Stage: "store", Seed: &seed})
		default:
			h.renderError(w, r, http.StatusInternalServerError, ErrorResponse{Error: "failed to store heightmap", Stage: "store", Seed: &seed})
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, hm)
}

// GetHeightmap returns the full stored record, including the row-major grid.
func (h *Handler) GetHeightmap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	hm, err := h.store.Load(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			h.renderError(w, r, http.StatusNotFound, ErrorResponse{Error: "heightmap not found", Stage: "store"})
		case errors.Is(err, store.ErrCorrupt):
			log.Error("stored heightmap is corrupt", "error", err, "key", name)
			h.renderError(w, r, http.StatusInternalServerError, ErrorResponse{Error: "stored heightmap is corrupt", Stage: "store"})
		default:
			log.Error("failed to load heightmap", "error", err, "key", name)
			h.renderError(w, r, http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable", Stage: "store"})
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, hm)
}

func (h *Handler) ListHeightmaps(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.List(r.Context())
	if err != nil {
		log.Error("failed to list heightmaps", "error", err)
		h.renderError(w, r, http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable", Stage: "store"})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{"names": names})
}

func (h *Handler) DeleteHeightmap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.store.Delete(r.Context(), name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.renderError(w, r, http.StatusNotFound, ErrorResponse{Error: "heightmap not found", Stage: "store"})
			return
		}
		log.Error("failed to delete heightmap", "error", err, "key", name)
		h.renderError(w, r, http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable", Stage: "store"})
		return
	}

	render.Status(r, http.StatusNoContent)
	render.NoContent(w, r)
}

func (h *Handler) renderGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	var cfgErr *terrain.ConfigError
	if errors.As(err, &cfgErr) {
		h.renderError(w, r, http.StatusBadRequest, ErrorResponse{
			Error: cfgErr.Error(),
			Stage: string(terrain.StageConfig),
			Field: cfgErr.Field,
		})
		return
	}

	var genErr *terrain.GenerationError
	if errors.As(err, &genErr) {
		log.Error("generation failed", "error", err, "stage", genErr.Stage)
		status := http.StatusInternalServerError
		if errors.Is(genErr.Err, context.DeadlineExceeded) || errors.Is(genErr.Err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
		h.renderError(w, r, status, ErrorResponse{Error: "generation failed", Stage: string(genErr.Stage)})
		return
	}

	log.Error("generation failed", "error", err)
	h.renderError(w, r, http.StatusInternalServerError, ErrorResponse{Error: "generation failed"})
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}
