package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyrange/cyrange/internal/domain"
	"github.com/cyrange/cyrange/internal/generator"
	"github.com/cyrange/cyrange/internal/repository"
	"github.com/cyrange/cyrange/internal/scenario"
	"github.com/cyrange/cyrange/internal/topology"
)

// createLabRequest is the POST /api/v0/labs payload: a lab name, the
// backend platform, the per-run edition and the full scenario.
type createLabRequest struct {
	Name     string            `json:"name"`
	Platform string            `json:"platform"`
	Edition  domain.LabEdition `json:"edition"`
	Scenario domain.Scenario   `json:"scenario"`
}

// labResponse is the serialized form of a recorded lab.
type labResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Institution    string `json:"institution"`
	Scenario       string `json:"scenario"`
	Platform       string `json:"platform"`
	InstanceNumber int    `json:"instance_number"`
	MachineCount   int    `json:"machine_count,omitempty"`
}

func labToResponse(lab domain.Lab) labResponse {
	return labResponse{
		ID:             lab.ID,
		Name:           lab.Name,
		Institution:    lab.Institution,
		Scenario:       lab.Scenario,
		Platform:       lab.Platform,
		InstanceNumber: lab.InstanceNumber,
	}
}

// listLabsHandler returns every recorded lab.
func (a *API) listLabsHandler(w http.ResponseWriter, r *http.Request) {
	labs, err := a.labRepo.FindAll(r.Context())
	if err != nil {
		http.Error(w, "failed to list labs", http.StatusInternalServerError)
		return
	}

	out := make([]labResponse, 0, len(labs))
	for _, lab := range labs {
		out = append(out, labToResponse(lab))
	}
	writeJSON(w, http.StatusOK, out)
}

// createLabHandler compiles the posted scenario and records the lab
// with its machines. Compilation failures are reported as 422 since the
// payload was well-formed but not compilable.
func (a *API) createLabHandler(w http.ResponseWriter, r *http.Request) {
	var req createLabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if _, err := generator.ForPlatform(req.Platform); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	scenario.Normalize(&req.Scenario)
	if err := scenario.Validate(&req.Scenario); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	blocks, err := topology.ParseBlocks(a.cfg.NetworkCIDRBlock, a.cfg.ServicesNetworkCIDRBlock, a.cfg.InternetNetworkCIDRBlock)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	plan, err := topology.Compile(&req.Scenario, req.Edition, blocks)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	lab, err := a.labRepo.Save(r.Context(), domain.Lab{
		Name:           req.Name,
		Institution:    req.Edition.Institution,
		Scenario:       req.Scenario.Name,
		Platform:       req.Platform,
		InstanceNumber: req.Edition.InstanceNumber,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "failed to record lab", http.StatusInternalServerError)
		return
	}

	records := make([]domain.LabMachine, 0, len(plan.Machines))
	for _, m := range plan.Machines {
		record := domain.LabMachine{
			LabID:    lab.ID,
			Name:     m.Name,
			Guest:    m.Guest,
			Instance: m.Instance,
			Copy:     m.Copy,
		}
		if len(m.Interfaces) > 0 {
			record.Network = m.Interfaces[0].Network
			record.IPAddress = m.Interfaces[0].IPAddress
		}
		records = append(records, record)
	}
	if err := a.machineRepo.SaveAll(r.Context(), lab.ID, records); err != nil {
		http.Error(w, "failed to record lab machines", http.StatusInternalServerError)
		return
	}

	resp := labToResponse(lab)
	resp.MachineCount = len(records)
	writeJSON(w, http.StatusCreated, resp)
}

// getLabHandler returns one recorded lab by name.
func (a *API) getLabHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	lab, err := a.labRepo.FindByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "lab not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to find lab", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, labToResponse(lab))
}

// deleteLabHandler removes a recorded lab and its machines.
func (a *API) deleteLabHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	lab, err := a.labRepo.FindByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "failed to find lab", http.StatusInternalServerError)
		return
	}

	if err := a.machineRepo.DeleteByLabID(r.Context(), lab.ID); err != nil {
		http.Error(w, "failed to delete lab machines", http.StatusInternalServerError)
		return
	}
	if err := a.labRepo.DeleteByID(r.Context(), lab.ID); err != nil {
		http.Error(w, "failed to delete lab", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
