package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"footin-engine/internal/config"
	"footin-engine/internal/contacts"
	"footin-engine/internal/events"
	"footin-engine/internal/store"
	"footin-engine/internal/workflow"
)

func testServer(t *testing.T) (*httptest.Server, *workflow.Controller) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() { db.Close() })

	log := zap.NewNop()
	hub := events.NewHub()
	ctrl := workflow.NewController(db, nil, nil, contacts.NewResolver(db, false, log), hub, log, workflow.Options{
		OwnerID: "tester",
	})

	var cfgVal atomic.Value
	var cfg config.Config
	cfg.App.Port = 38471
	cfg.Owner.ID = "tester"
	cfgVal.Store(cfg)

	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	srv := httptest.NewServer(NewRouter(Deps{
		DB:          db,
		Hub:         hub,
		Log:         log,
		Controller:  ctrl,
		CfgVal:      &cfgVal,
		UserCfgPath: cfgPath,
		LoadCfg:     func() (config.Config, error) { return config.Load(cfgPath) },
	}))
	t.Cleanup(srv.Close)
	return srv, ctrl
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeSnapshot(t *testing.T, resp *http.Response) workflow.Snapshot {
	t.Helper()
	var snap workflow.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := testServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, workflow.PhaseTargeting, snap.Phase)

	base := srv.URL + "/sessions/" + snap.ID

	resp = doJSON(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, base+"/targets", map[string]any{
		"companies": []string{"Acme"},
		"roles":     []string{"Platform Engineer"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeSnapshot(t, resp)
	assert.Equal(t, []string{"Acme"}, snap.TargetCompanies)
}

func TestSessionNotFound(t *testing.T) {
	srv, _ := testServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetTargetsValidationError(t *testing.T) {
	srv, ctrl := testServer(t)
	s := ctrl.CreateSession()

	resp := doJSON(t, http.MethodPut, srv.URL+"/sessions/"+s.ID+"/targets", map[string]any{
		"companies": []string{},
		"roles":     []string{"SRE"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e APIError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "validation_error", e.Error.Code)
}

func TestExtractWrongPhaseConflicts(t *testing.T) {
	srv, ctrl := testServer(t)
	s := ctrl.CreateSession()

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+s.ID+"/extract", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDiscoverWithoutTargetsRejected(t *testing.T) {
	srv, ctrl := testServer(t)
	s := ctrl.CreateSession()

	// No targets set: the guard trips before any async work starts.
	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+s.ID+"/discover", map[string]any{"fresh": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetEndpoint(t *testing.T) {
	srv, ctrl := testServer(t)
	s := ctrl.CreateSession()
	require.NoError(t, s.SetTargets([]string{"Acme"}, []string{"SRE"}))

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+s.ID+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	assert.Empty(t, snap.TargetCompanies)
	assert.Equal(t, workflow.PhaseTargeting, snap.Phase)
}

func TestJobsEmpty(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/jobs?keywords=engineer")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var jobs []json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jobs))
	assert.Empty(t, jobs)
}

func TestConfigGetAndPath(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg config.Config
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, "tester", cfg.Owner.ID)

	resp2, err := http.Get(srv.URL + "/config/path")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestConfigPutRejectsInvalid(t *testing.T) {
	srv, _ := testServer(t)

	var bad config.Config // zero port, empty owner
	resp := doJSON(t, http.MethodPut, srv.URL+"/config", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownSecretProvider(t *testing.T) {
	srv, _ := testServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/secrets/imap", map[string]string{"key": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
