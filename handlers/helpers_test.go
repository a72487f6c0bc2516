package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/footbot/services"
	"github.com/Dosada05/footbot/teamapi"
	"github.com/stretchr/testify/assert"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrPlayerNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: 2-1", services.ErrMatchNotFound), http.StatusNotFound},
		{services.ErrPlayerNameRequired, http.StatusUnprocessableEntity},
		{services.ErrInvalidTeamCount, http.StatusBadRequest},
		{services.ErrRoundRequired, http.StatusBadRequest},
		{services.ErrNamesNotConfirmed, http.StatusConflict},
		{services.ErrInvalidSessionToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: %w", services.ErrGenerationFailed, &teamapi.StatusError{StatusCode: 500}), http.StatusBadGateway},
		{services.ErrExportDisabled, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestOriginChecker(t *testing.T) {
	request := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	anyOrigin := originChecker(nil)
	assert.True(t, anyOrigin(request("https://evil.example")))

	wildcard := originChecker([]string{"https://app.example", "*"})
	assert.True(t, wildcard(request("https://evil.example")))

	strict := originChecker([]string{"https://app.example"})
	assert.True(t, strict(request("https://app.example")))
	assert.True(t, strict(request("")), "non-browser clients send no origin")
	assert.False(t, strict(request("https://evil.example")))
}
