package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	a := GenerateRandomString(10)
	b := GenerateRandomString(10)

	assert.Len(t, a, 10)
	assert.Len(t, b, 10)
	assert.NotEqual(t, a, b)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "menu.jpg", SanitizeFilename("menu.jpg"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "my_photo_1_.png", SanitizeFilename("my photo(1).png"))
	assert.Equal(t, "file", SanitizeFilename(""))
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, 404, "Order not found")

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Order not found", body["message"])
}

func TestSendResponseEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	SendResponse(rec, 200, M{"count": 2}, "ok", nil)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
	assert.NotNil(t, body["data"])

	rec = httptest.NewRecorder()
	SendResponse(rec, 500, nil, "failed", errors.New("boom"))

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "boom", body["error"])
}
