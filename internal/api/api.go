// Package api exposes the recorded labs and their compiled machines
// over HTTP. The API never provisions anything; it compiles scenarios
// through the topology package and serves the resulting records.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyrange/cyrange/internal/config"
	"github.com/cyrange/cyrange/internal/repository"
)

// API holds repository dependencies for clean data access
type API struct {
	cfg         *config.Config
	labRepo     repository.LabRepository
	machineRepo repository.LabMachineRepository
}

// NewAPI creates the API with its repository dependencies.
func NewAPI(cfg *config.Config, labRepo repository.LabRepository, machineRepo repository.LabMachineRepository) *API {
	return &API{
		cfg:         cfg,
		labRepo:     labRepo,
		machineRepo: machineRepo,
	}
}

// RegisterRoutes registers all API endpoints to the given chi router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v0/labs", func(r chi.Router) {
		r.Get("/", a.listLabsHandler)
		r.Post("/", a.createLabHandler)
		r.Get("/{name}", a.getLabHandler)
		r.Delete("/{name}", a.deleteLabHandler)
		r.Get("/{name}/machines", a.listLabMachinesHandler)
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
