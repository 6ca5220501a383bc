package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cleanearth/internal/contextutils"
	"cleanearth/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRequest() *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	return r.WithContext(contextutils.WithRequestID(r.Context(), "req-1"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccessWritesRawPayload(t *testing.T) {
	b := NewBuilder(nil, zap.NewNop())
	rec := httptest.NewRecorder()

	b.WriteCreated(rec, newRequest(), map[string]interface{}{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())
}

func TestWriteErrorServiceError(t *testing.T) {
	b := NewBuilder(nil, zap.NewNop())
	rec := httptest.NewRecorder()

	b.WriteError(rec, newRequest(), services.NewJoinConflictError("This camp is already full", "CAMPAIGN_FULL"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "This camp is already full", body.Error)
	assert.Equal(t, services.ErrorTypeConflict, body.Type)
	assert.Equal(t, "CAMPAIGN_FULL", body.Code)
	assert.Equal(t, "req-1", body.RequestID)
}

func TestWriteErrorAuthentication(t *testing.T) {
	b := NewBuilder(nil, zap.NewNop())
	rec := httptest.NewRecorder()

	b.WriteError(rec, newRequest(), services.NewAuthenticationError("Token has been revoked", "token_revoked", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, services.ErrorTypeAuthentication, body.Type)
	assert.Equal(t, "Token has been revoked", body.Error)
}

func TestWriteErrorMasksInternal(t *testing.T) {
	b := NewBuilder(nil, zap.NewNop())
	rec := httptest.NewRecorder()

	b.WriteError(rec, newRequest(), errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, services.ErrorTypeInternal, body.Type)
	assert.Equal(t, "An internal error occurred", body.Error)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestWriteErrorUnmasked(t *testing.T) {
	b := NewBuilder(&Config{MaskInternalErrors: false}, zap.NewNop())
	rec := httptest.NewRecorder()

	b.WriteError(rec, newRequest(), services.NewInternalError("Failed to logout"))

	body := decodeError(t, rec)
	assert.Equal(t, "Failed to logout", body.Error)
	assert.Empty(t, body.RequestID)
}

func TestWriteErrorFields(t *testing.T) {
	b := NewBuilder(nil, zap.NewNop())
	rec := httptest.NewRecorder()

	serviceErr := services.NewValidationError("Missing required field: email", nil)
	serviceErr.Fields = []services.FieldError{{Field: "email", Message: "Missing required field: email", Code: "required"}}
	b.WriteError(rec, newRequest(), serviceErr)

	body := decodeError(t, rec)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "email", body.Fields[0].Field)
}
