package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/localharvest/marketclient/pkg/errors"
)

// makeResponse creates an *http.Response with the given status code and body string.
func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func asAppError(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr
}

func TestParseResponseError_ServerMessage(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusInternalServerError, `{"message":"Server error"}`))

	appErr := asAppError(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Server error", appErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrServer)
}

func TestParseResponseError_NotFound(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusNotFound, `{"success":false,"message":"Order not found"}`))

	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Order not found", asAppError(t, err).Message)
}

func TestParseResponseError_ValidationFields(t *testing.T) {
	body := `{"success":false,"message":"The given data was invalid.","errors":{"quantity":["The quantity must be at least 1."]}}`
	err := ParseResponseError(makeResponse(http.StatusUnprocessableEntity, body))

	appErr := asAppError(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, []string{"The quantity must be at least 1."}, appErr.Fields["quantity"])
}

func TestParseResponseError_ErrorKey(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusUnauthorized, `{"error":"Unauthenticated."}`))

	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "Unauthenticated.", asAppError(t, err).Message)
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusBadGateway, `<html>bad gateway</html>`))

	appErr := asAppError(t, err)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.Empty(t, appErr.Message)
	assert.Equal(t, "fallback", apperrors.UserMessage(err, "fallback"))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusNotFound))
	assert.False(t, IsClientError(http.StatusInternalServerError))
	assert.True(t, IsSuccess(http.StatusCreated))
	assert.False(t, IsSuccess(http.StatusNoContent+100))
}
