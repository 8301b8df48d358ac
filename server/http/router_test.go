package serverhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catHnd "ratematch-service/internal/catalog/handler"
	"ratematch-service/internal/catalog/model"
	"ratematch-service/internal/catalog/service"
	"ratematch-service/internal/config"
)

// newTestServer wires the router against the repository's seed data.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	data := filepath.Join("..", "..", "data")
	cfg := config.Config{
		AllowOrigins:   []string{"http://localhost:3000"},
		MaxUploadMB:    1,
		MatchThreshold: service.DefaultThreshold,
	}
	m := service.NewMatcher(cfg.MatchThreshold)
	s := service.NewSeeder(m, filepath.Join(data, "items.json"), filepath.Join(data, "sample_inputs.json"))
	_, err := s.Seed()
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(cfg, zerolog.Nop(), catHnd.New(m, s, zerolog.Nop(), cfg.MaxUploadMB)))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp.StatusCode, raw
}

func items(t *testing.T, srv *httptest.Server) []model.Record {
	t.Helper()
	code, raw := call(t, srv, http.MethodGet, "/item", "")
	require.Equal(t, http.StatusOK, code)
	var out []model.Record
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	code, raw := call(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestMatchRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/match", "/match/item"} {
		t.Run("exact "+path, func(t *testing.T) {
			code, raw := call(t, srv, http.MethodPost, path, `{"trade":"painting","unit_of_measure":"m2"}`)
			require.Equal(t, http.StatusOK, code)
			var resp model.MatchResponse
			require.NoError(t, json.Unmarshal(raw, &resp))
			assert.Equal(t, "Painting", resp.BestMatch.Trade)
			assert.Equal(t, "M2", resp.BestMatch.UnitOfMeasure)
			assert.Equal(t, 23.0, resp.BestMatch.Rate)
			assert.NotEmpty(t, resp.BestMatch.ID)
			assert.Equal(t, 1.0, resp.SimilarityScore)
		})
	}

	t.Run("partial", func(t *testing.T) {
		code, raw := call(t, srv, http.MethodPost, "/match", `{"trade":"plumbing","unit_of_measure":"item"}`)
		require.Equal(t, http.StatusOK, code)
		var resp model.MatchResponse
		require.NoError(t, json.Unmarshal(raw, &resp))
		assert.Equal(t, "Plumbing", resp.BestMatch.Trade)
		assert.Equal(t, "EACH", resp.BestMatch.UnitOfMeasure)
		assert.Equal(t, 150.0, resp.BestMatch.Rate)
		assert.Greater(t, resp.SimilarityScore, 0.5)
	})

	t.Run("no match", func(t *testing.T) {
		code, raw := call(t, srv, http.MethodPost, "/match", `{"trade":"random","unit_of_measure":"whatnot"}`)
		assert.Equal(t, http.StatusNotFound, code)
		assert.JSONEq(t, `{"detail":"No matching item found."}`, string(raw))
	})

	t.Run("random", func(t *testing.T) {
		code, _ := call(t, srv, http.MethodGet, "/match/random", "")
		assert.Contains(t, []int{http.StatusOK, http.StatusNotFound}, code)
	})
}

func TestLoadAndClearRoutes(t *testing.T) {
	srv := newTestServer(t)
	newItems := `{"items":[
		{"trade":"Carpentry","unit_of_measure":"Hour","rate":35.0},
		{"trade":"Landscaping","unit_of_measure":"SqFt","rate":10.0}
	],"replace":true}`

	t.Run("load from scratch", func(t *testing.T) {
		code, raw := call(t, srv, http.MethodPost, "/item", newItems)
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `"Successfully loaded items"`, string(raw))
		assert.Len(t, items(t, srv), 2)

		code, raw = call(t, srv, http.MethodPost, "/match", `{"trade":"carpentry","unit_of_measure":"hour"}`)
		require.Equal(t, http.StatusOK, code)
		var resp model.MatchResponse
		require.NoError(t, json.Unmarshal(raw, &resp))
		assert.Equal(t, "Carpentry", resp.BestMatch.Trade)
		assert.Greater(t, resp.SimilarityScore, 0.9)
	})

	t.Run("load additional", func(t *testing.T) {
		before := len(items(t, srv))
		code, _ := call(t, srv, http.MethodPost, "/load", strings.Replace(newItems, `"replace":true`, `"replace":false`, 1))
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, before+2, len(items(t, srv)))
	})

	t.Run("clear", func(t *testing.T) {
		code, raw := call(t, srv, http.MethodDelete, "/clear", "")
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `"Squeaky Clean!"`, string(raw))
		assert.Empty(t, items(t, srv))

		code, _ = call(t, srv, http.MethodPost, "/clear", "")
		assert.Equal(t, http.StatusOK, code)

		code, _ = call(t, srv, http.MethodPost, "/match", `{"trade":"painting","unit_of_measure":"m2"}`)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("autopopulate", func(t *testing.T) {
		code, raw := call(t, srv, http.MethodPost, "/load", "")
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `"Successfully autopopulated the system"`, string(raw))
		assert.NotEmpty(t, items(t, srv))
	})

	t.Run("bad item type", func(t *testing.T) {
		code, _ := call(t, srv, http.MethodPost, "/item", `{"items":[{"trade":"A","unit_of_measure":"B","rate":"cheap"}]}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestPreflight(t *testing.T) {
	srv := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/clear", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
