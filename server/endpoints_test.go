package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lucaspiller/exprscript/internal/exprstore/inmem"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func testServer(t *testing.T) (Server, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("test-api-key"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	cfg := Config{
		TokenSecret: "THIS_IS_A_TEST_SECRET_OF_SUFFICIENT_LENGTH",
		APIKeyHash:  string(hash),
		DB:          Database{Type: DatabaseInMemory},
	}.FillDefaults()
	assert.NoError(t, cfg.Validate())

	srv := New(cfg, inmem.NewDatastore())
	return srv, mustIssueToken(t, srv)
}

func mustIssueToken(t *testing.T, srv Server) string {
	t.Helper()

	body, _ := json.Marshal(TokenRequest{APIKey: "test-api-key"})
	req := httptest.NewRequest(http.MethodPost, "/tokens", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var tokResp TokenResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokResp))
	return tokResp.Token
}

func Test_PostTokens_rejectsBadAPIKey(t *testing.T) {
	srv, _ := testServer(t)

	body, _ := json.Marshal(TokenRequest{APIKey: "wrong-key"})
	req := httptest.NewRequest(http.MethodPost, "/tokens", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_PostLibraries_requiresAuth(t *testing.T) {
	srv, _ := testServer(t)

	body, _ := json.Marshal(LibraryRequest{Name: "math", Source: "$(sq, $1*$1)"})
	req := httptest.NewRequest(http.MethodPost, "/libraries", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_PostLibraries_rejectsUnparseableSource(t *testing.T) {
	srv, tok := testServer(t)

	body, _ := json.Marshal(LibraryRequest{Name: "bad", Source: "(("})
	req := httptest.NewRequest(http.MethodPost, "/libraries", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_EnvironmentLifecycle_createAndEval(t *testing.T) {
	srv, tok := testServer(t)

	envBody, _ := json.Marshal(EnvironmentRequest{Name: "session-1", Variables: map[string]float64{"x": 5}})
	req := httptest.NewRequest(http.MethodPost, "/environments", bytes.NewReader(envBody))
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var envResp EnvironmentResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envResp))
	assert.Equal(t, float64(5), envResp.Variables["x"])

	evalBody, _ := json.Marshal(EvalRequest{Expression: "y = x + 3, y"})
	req = httptest.NewRequest(http.MethodPost, "/environments/"+envResp.ID+"/eval", bytes.NewReader(evalBody))
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var evalResp EvalResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &evalResp))
	assert.Equal(t, float64(8), evalResp.Result)
	assert.Equal(t, float64(8), evalResp.Variables["y"])
	assert.Equal(t, float64(5), evalResp.Variables["x"])
}

func Test_GetEnvironment_missingIsNotFound(t *testing.T) {
	srv, tok := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/environments/00000000-0000-0000-0000-000000000000", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
