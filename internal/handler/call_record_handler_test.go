package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"call-directory/internal/middleware"
	"call-directory/internal/repository"
	"call-directory/internal/services"
	"call-directory/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewCallRecordHandler(services.NewCallDirectoryService(repository.NewMemoryCallRecordRepository()))
	auth := middleware.AuthMiddleware(testSecret)

	engine := gin.New()
	calls := engine.Group("/v1/calls")
	{
		calls.GET("", h.ListByRegion)
		calls.GET("/:group_id", h.Get)
		calls.POST("", auth, middleware.CallRateLimitMiddleware(nil), h.Create)
		calls.DELETE("/:group_id", auth, h.Delete)
	}
	return engine
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeCreateResponse(t *testing.T, rec *httptest.ResponseRecorder) httpdto.CreateCallResponse {
	t.Helper()
	var resp httpdto.Response[httpdto.CreateCallResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func TestCreateCallRequiresAuth(t *testing.T) {
	engine := newTestRouter(t)

	rec := doRequest(t, engine, http.MethodPost, "/v1/calls", "", httpdto.CreateCallRequest{
		GroupID: "g1", BackendHost: "10.0.0.1", BackendRegion: "us1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCallStampsCreatorFromToken(t *testing.T) {
	engine := newTestRouter(t)

	rec := doRequest(t, engine, http.MethodPost, "/v1/calls", signToken(t, "u1"), httpdto.CreateCallRequest{
		GroupID: "g1", BackendHost: "10.0.0.1", BackendRegion: "us1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeCreateResponse(t, rec)
	assert.True(t, data.Created)
	assert.Equal(t, "g1", data.Call.GroupID)
	assert.Equal(t, "u1", data.Call.Creator)
	assert.NotEmpty(t, data.Call.CallID)
}

func TestCreateCallSecondCallerObservesWinner(t *testing.T) {
	engine := newTestRouter(t)

	first := decodeCreateResponse(t, doRequest(t, engine, http.MethodPost, "/v1/calls", signToken(t, "u1"), httpdto.CreateCallRequest{
		GroupID: "g1", BackendHost: "10.0.0.1", BackendRegion: "us1",
	}))
	second := decodeCreateResponse(t, doRequest(t, engine, http.MethodPost, "/v1/calls", signToken(t, "u2"), httpdto.CreateCallRequest{
		GroupID: "g1", BackendHost: "10.0.0.2", BackendRegion: "us2",
	}))

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.Call, second.Call)
}

func TestGetCall(t *testing.T) {
	engine := newTestRouter(t)

	rec := doRequest(t, engine, http.MethodGet, "/v1/calls/g1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	created := decodeCreateResponse(t, doRequest(t, engine, http.MethodPost, "/v1/calls", signToken(t, "u1"), httpdto.CreateCallRequest{
		GroupID: "g1", BackendHost: "10.0.0.1", BackendRegion: "us1",
	}))

	rec = doRequest(t, engine, http.MethodGet, "/v1/calls/g1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpdto.Response[httpdto.CallDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.Call, resp.Data)
}

func TestDeleteCall(t *testing.T) {
	engine := newTestRouter(t)
	token := signToken(t, "u1")

	created := decodeCreateResponse(t, doRequest(t, engine, http.MethodPost, "/v1/calls", token, httpdto.CreateCallRequest{
		GroupID: "g1", BackendHost: "10.0.0.1", BackendRegion: "us1",
	}))

	// Stale call id: removal succeeds but the record survives.
	rec := doRequest(t, engine, http.MethodDelete, "/v1/calls/g1?call_id=stale", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, engine, http.MethodGet, "/v1/calls/g1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Matching call id removes the record.
	rec = doRequest(t, engine, http.MethodDelete, "/v1/calls/g1?call_id="+created.Call.CallID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, engine, http.MethodGet, "/v1/calls/g1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCallRequiresCallID(t *testing.T) {
	engine := newTestRouter(t)

	rec := doRequest(t, engine, http.MethodDelete, "/v1/calls/g1", signToken(t, "u1"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCallsByRegion(t *testing.T) {
	engine := newTestRouter(t)
	token := signToken(t, "u1")

	doRequest(t, engine, http.MethodPost, "/v1/calls", token, httpdto.CreateCallRequest{
		GroupID: "g1", BackendHost: "10.0.0.1", BackendRegion: "us1",
	})
	doRequest(t, engine, http.MethodPost, "/v1/calls", token, httpdto.CreateCallRequest{
		GroupID: "g2", BackendHost: "10.0.0.2", BackendRegion: "eu1",
	})

	rec := doRequest(t, engine, http.MethodGet, "/v1/calls?region=us1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpdto.Response[httpdto.CallListResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Calls, 1)
	assert.Equal(t, "g1", resp.Data.Calls[0].GroupID)

	rec = doRequest(t, engine, http.MethodGet, "/v1/calls?region=ap1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Calls)

	rec = doRequest(t, engine, http.MethodGet, "/v1/calls", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
