package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csrent/csrent-cli/internal/resource"
	"github.com/csrent/csrent-cli/internal/state"
)

func newServer(t *testing.T, st *state.State) (*Store, *httptest.Server) {
	t.Helper()
	store := NewMemory(st)
	srv := httptest.NewServer(NewRouter(store, nil))
	t.Cleanup(srv.Close)
	return store, srv
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestSpaces_CRUD(t *testing.T) {
	_, srv := newServer(t, nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/space", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, body = do(t, http.MethodPost, srv.URL+"/space", `{"name":"Hall A","location":"P1","capacity":50,"price":100,"available":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created resource.Space
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, resource.ID(1), created.ID)

	resp, _ = do(t, http.MethodPut, srv.URL+"/space/1", `{"name":"Hall B","location":"P1","capacity":10,"price":5,"available":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/space/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got resource.Space
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "Hall B", got.Name)
	assert.False(t, got.Available)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/space/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/space/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSpaces_Errors(t *testing.T) {
	_, srv := newServer(t, nil)

	resp, _ := do(t, http.MethodPost, srv.URL+"/space", `{"location":"P1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/space", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/space/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/space/9", `{"name":"x","location":"y"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/space/9", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUsers_PasswordNeverReturnedAndKeptOnBlankUpdate(t *testing.T) {
	store, srv := newServer(t, nil)

	resp, _ := do(t, http.MethodPost, srv.URL+"/user", `{"name":"Ana","email":"ana@example.com","role":"Admin"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "password is required on create")

	resp, body := do(t, http.MethodPost, srv.URL+"/user", `{"name":"Ana","email":"ana@example.com","role":"Admin","password":"pw"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, body, "password")

	_, body = do(t, http.MethodGet, srv.URL+"/user", "")
	assert.NotContains(t, body, "pw")

	resp, _ = do(t, http.MethodPut, srv.URL+"/user/1", `{"name":"Ana","email":"ana@example.com","role":"Consulta"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, store.CheckPassword(1, "pw"))

	resp, _ = do(t, http.MethodPut, srv.URL+"/user/1", `{"name":"Ana","email":"ana@example.com","role":"Consulta","password":"new"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, store.CheckPassword(1, "new"))

	resp, _ = do(t, http.MethodPut, srv.URL+"/user/1", `{"name":"Ana","email":"nope","role":"Consulta"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORS_Preflight(t *testing.T) {
	_, srv := newServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/space", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestOpen_SeedsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := Open(path)
	require.NoError(t, err)
	seeded := len(store.ListSpaces())
	require.NotZero(t, seeded)

	_, err = store.CreateSpace(resource.SpaceInput{Name: "New", Location: "L"})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, reopened.ListSpaces(), seeded+1)
}
