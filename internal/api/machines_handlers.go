package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyrange/cyrange/internal/domain"
	"github.com/cyrange/cyrange/internal/repository"
	"github.com/cyrange/cyrange/internal/selector"
)

// machineResponse is the serialized form of a recorded machine.
type machineResponse struct {
	Name      string `json:"name"`
	Guest     string `json:"guest"`
	Instance  int    `json:"instance"`
	Copy      int    `json:"copy"`
	Network   string `json:"network,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

// listLabMachinesHandler returns the machines of a lab, filtered by the
// instances/copies/guests query parameters using the machine
// specification grammar.
func (a *API) listLabMachinesHandler(w http.ResponseWriter, r *http.Request) {
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

	query := r.URL.Query()
	sel, err := selector.Parse(query.Get("instances"), query.Get("copies"), query.Get("guests"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	machines, err := a.machineRepo.FindByLabID(r.Context(), lab.ID)
	if err != nil {
		http.Error(w, "failed to list machines", http.StatusInternalServerError)
		return
	}

	out := make([]machineResponse, 0, len(machines))
	for _, m := range machines {
		if !sel.MatchesValues(m.Guest, m.Instance, m.Copy) {
			continue
		}
		out = append(out, machineToResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func machineToResponse(m domain.LabMachine) machineResponse {
	return machineResponse{
		Name:      m.Name,
		Guest:     m.Guest,
		Instance:  m.Instance,
		Copy:      m.Copy,
		Network:   m.Network,
		IPAddress: m.IPAddress,
	}
}
