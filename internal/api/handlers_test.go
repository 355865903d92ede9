package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Reliefmesh/api/internal/store"
	"github.com/Reliefmesh/api/internal/terrain"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE heightmaps (
	key        TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	config     TEXT NOT NULL,
	grid       BLOB NOT NULL,
	created_at TEXT NOT NULL
);
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	handler := NewHandler(
		terrain.NewGenerator(4, 1<<20),
		store.NewSQLiteStore(db),
		10*time.Second,
	)
	srv := httptest.NewServer(SetupRoutes(handler))
	t.Cleanup(srv.Close)
	return srv
}

func generateBody(name string, seed int64) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"name":               name,
		"seed":               seed,
		"width":              8,
		"height":             8,
		"octave_count":       3,
		"base_frequency":     0.5,
		"persistence":        0.5,
		"lacunarity":         2.0,
		"erosion_iterations": 2,
		"erosion_strength":   0.5,
	})
	return body
}

func postJSON(t *testing.T, url string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "reliefmesh-api", body["service"])
}

func TestGenerateHeightmap(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/heightmaps", generateBody("alps", 42))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var hm terrain.Heightmap
	decodeBody(t, resp, &hm)
	assert.Equal(t, "alps", hm.Name)
	assert.Equal(t, int64(42), hm.Seed)
	assert.NotEmpty(t, hm.ID)
	require.NotNil(t, hm.Grid)
	assert.Len(t, hm.Grid.Cells, 64)
}

func TestGenerateHeightmap_BadRequests(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name: "malformed json",
			body: `{not json`,
		},
		{
			name:      "missing name",
			body:      `{"width": 8, "height": 8, "octave_count": 3, "base_frequency": 0.5, "persistence": 0.5, "lacunarity": 2.0}`,
			wantField: "name",
		},
		{
			name:      "invalid octave count",
			body:      `{"name": "alps", "width": 8, "height": 8, "octave_count": 0, "base_frequency": 0.5, "persistence": 0.5, "lacunarity": 2.0}`,
			wantField: "octave_count",
		},
		{
			name:      "zero width",
			body:      `{"name": "alps", "width": 0, "height": 8, "octave_count": 3, "base_frequency": 0.5, "persistence": 0.5, "lacunarity": 2.0}`,
			wantField: "width",
		},
		{
			name:      "unknown noise type",
			body:      `{"name": "alps", "width": 8, "height": 8, "octave_count": 3, "base_frequency": 0.5, "persistence": 0.5, "lacunarity": 2.0, "noise_type": "wavelet"}`,
			wantField: "noise_type",
		},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/v1/heightmaps", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp ErrorResponse
			decodeBody(t, resp, &errResp)
			assert.Equal(t, tt.wantField, errResp.Field)
		})
	}
}

func TestGenerateHeightmap_SimplexWithWarp(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]interface{}{
		"name": "dunes", "seed": 9, "width": 8, "height": 8,
		"octave_count": 3, "base_frequency": 0.5, "persistence": 0.5,
		"lacunarity": 2.0, "noise_type": "simplex", "warp_strength": 0.3,
	})
	resp := postJSON(t, srv.URL+"/api/v1/heightmaps", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var hm terrain.Heightmap
	decodeBody(t, resp, &hm)
	assert.Equal(t, terrain.NoiseSimplex, hm.Config.NoiseType)
	assert.Equal(t, 0.3, hm.Config.WarpStrength)
	assert.Len(t, hm.Grid.Cells, 64)
}

func TestGenerateHeightmap_Conflict(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/heightmaps", generateBody("alps", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/heightmaps", generateBody("alps", 2))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "store", errResp.Stage)
	require.NotNil(t, errResp.Seed, "conflict response carries the seed for a deterministic retry")
	assert.Equal(t, int64(2), *errResp.Seed)
}

func TestGenerateHeightmap_OverwriteReplaces(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/heightmaps", generateBody("alps", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body, _ := json.Marshal(map[string]interface{}{
		"name": "alps", "seed": 2, "overwrite": true,
		"width": 8, "height": 8, "octave_count": 3,
		"base_frequency": 0.5, "persistence": 0.5, "lacunarity": 2.0,
	})
	resp = postJSON(t, srv.URL+"/api/v1/heightmaps", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/heightmaps/alps")
	require.NoError(t, err)
	var hm terrain.Heightmap
	decodeBody(t, resp, &hm)
	assert.Equal(t, int64(2), hm.Seed)
}

func TestGenerateHeightmap_RandomSeedWhenOmitted(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]interface{}{
		"name": "alps", "width": 4, "height": 4, "octave_count": 3,
		"base_frequency": 0.5, "persistence": 0.5, "lacunarity": 2.0,
	})
	resp := postJSON(t, srv.URL+"/api/v1/heightmaps", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var hm terrain.Heightmap
	decodeBody(t, resp, &hm)
	assert.NotZero(t, hm.Seed, "an omitted seed is assigned, not left at zero")
}

func TestGetHeightmap(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/heightmaps", generateBody("alps", 42))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created terrain.Heightmap
	decodeBody(t, resp, &created)

	resp, err := http.Get(srv.URL + "/api/v1/heightmaps/alps")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loaded terrain.Heightmap
	decodeBody(t, resp, &loaded)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, created.Grid.Cells, loaded.Grid.Cells)
}

func TestGetHeightmap_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/heightmaps/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "store", errResp.Stage)
}

func TestListHeightmaps(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/heightmaps")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty struct {
		Names []string `json:"names"`
	}
	decodeBody(t, resp, &empty)
	assert.Empty(t, empty.Names)

	for _, name := range []string{"rockies", "alps"} {
		resp := postJSON(t, srv.URL+"/api/v1/heightmaps", generateBody(name, 1))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err = http.Get(srv.URL + "/api/v1/heightmaps")
	require.NoError(t, err)
	var listed struct {
		Names []string `json:"names"`
	}
	decodeBody(t, resp, &listed)
	assert.Equal(t, []string{"alps", "rockies"}, listed.Names)
}

func TestDeleteHeightmap(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/heightmaps", generateBody("alps", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, srv.URL+"/api/v1/heightmaps/alps", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/heightmaps/alps")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteHeightmap_NotFound(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, srv.URL+"/api/v1/heightmaps/missing", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
