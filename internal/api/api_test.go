package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrange/cyrange/internal/config"
	"github.com/cyrange/cyrange/internal/domain"
	"github.com/cyrange/cyrange/internal/repository"
	"github.com/cyrange/cyrange/internal/testutil"
)

func setupTestAPI(t *testing.T, testName string) (*httptest.Server, func()) {
	t.Helper()
	db, cleanup := testutil.SetupTestDBWithMigrations(t, testName)

	a := NewAPI(config.NewConfig(), repository.NewLabRepository(db), repository.NewLabMachineRepository(db))
	r := chi.NewRouter()
	a.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	return srv, func() {
		srv.Close()
		cleanup()
	}
}

func validCreateRequest(name string) createLabRequest {
	return createLabRequest{
		Name:     name,
		Platform: "libvirt",
		Edition: domain.LabEdition{
			Institution:    "test_inst",
			LabName:        "test_lab",
			InstanceNumber: 2,
		},
		Scenario: domain.Scenario{
			Name: "attack_defense",
			Guests: []domain.GuestTemplate{
				{Name: "attacker", BaseOS: "kali", Copies: 1},
				{Name: "victim", BaseOS: "debian", Copies: 2},
			},
			Networks: []domain.NetworkDef{
				{Name: "internal", Members: []string{"attacker", "victim"}},
			},
		},
	}
}

func postLab(t *testing.T, srv *httptest.Server, req createLabRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/v0/labs", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestCreateLab(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_create_lab")
	defer cleanup()

	resp := postLab(t, srv, validCreateRequest("test_inst-test_lab"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var lab labResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lab))
	assert.Equal(t, "test_inst-test_lab", lab.Name)
	assert.Equal(t, "test_inst", lab.Institution)
	assert.Equal(t, "libvirt", lab.Platform)
	assert.Equal(t, 2, lab.InstanceNumber)
	// 3 machines per instance, 2 instances
	assert.Equal(t, 6, lab.MachineCount)
}

func TestCreateLab_DuplicateName(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_duplicate_lab")
	defer cleanup()

	resp := postLab(t, srv, validCreateRequest("dup"))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postLab(t, srv, validCreateRequest("dup"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateLab_BadRequests(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_bad_requests")
	defer cleanup()

	resp, err := http.Post(srv.URL+"/api/v0/labs", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := validCreateRequest("")
	resp = postLab(t, srv, req)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = validCreateRequest("bad_platform")
	req.Platform = "vsphere"
	resp = postLab(t, srv, req)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateLab_UncompilableScenario(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_uncompilable")
	defer cleanup()

	// three networks is not a supported topology
	req := validCreateRequest("bad_topology")
	req.Scenario.Networks = []domain.NetworkDef{
		{Name: "a", Members: []string{"attacker"}},
		{Name: "b", Members: []string{"attacker"}},
		{Name: "c", Members: []string{"attacker"}},
	}
	resp := postLab(t, srv, req)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// a member that references no declared guest fails validation
	req = validCreateRequest("bad_scenario")
	req.Scenario.Networks[0].Members = []string{"ghost"}
	resp = postLab(t, srv, req)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetLab(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_get_lab")
	defer cleanup()

	resp := postLab(t, srv, validCreateRequest("findme"))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/v0/labs/findme")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var lab labResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lab))
	assert.Equal(t, "findme", lab.Name)

	resp, err = http.Get(srv.URL + "/api/v0/labs/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListLabs(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_list_labs")
	defer cleanup()

	for _, name := range []string{"one", "two"} {
		resp := postLab(t, srv, validCreateRequest(name))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/v0/labs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var labs []labResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&labs))
	assert.Len(t, labs, 2)
}

func TestDeleteLab(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_delete_lab")
	defer cleanup()

	resp := postLab(t, srv, validCreateRequest("doomed"))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v0/labs/doomed", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v0/labs/doomed")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// deleting a lab that is already gone stays a 204
	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/v0/labs/doomed", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestListLabMachines(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_list_machines")
	defer cleanup()

	resp := postLab(t, srv, validCreateRequest("filters"))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/v0/labs/filters/machines")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var machines []machineResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&machines))
	assert.Len(t, machines, 6)
}

func TestListLabMachines_Filtered(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_filtered_machines")
	defer cleanup()

	resp := postLab(t, srv, validCreateRequest("filters"))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/v0/labs/filters/machines?guests=victim&instances=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var machines []machineResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&machines))
	require.Len(t, machines, 2)
	for _, m := range machines {
		assert.Equal(t, "victim", m.Guest)
		assert.Equal(t, 2, m.Instance)
	}
}

func TestListLabMachines_BadSelector(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_bad_selector")
	defer cleanup()

	resp := postLab(t, srv, validCreateRequest("filters"))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/v0/labs/filters/machines?instances=9-2")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListLabMachines_UnknownLab(t *testing.T) {
	srv, cleanup := setupTestAPI(t, "api_machines_unknown_lab")
	defer cleanup()

	resp, err := http.Get(srv.URL + "/api/v0/labs/missing/machines")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
