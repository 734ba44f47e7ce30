package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("bad date: %w", types.ErrInvalidInput), http.StatusBadRequest},
		{types.ErrNotFound, http.StatusNotFound},
		{types.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("webp: %w", types.ErrUnsupportedImage), http.StatusUnsupportedMediaType},
		{types.ErrUnauthenticated, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromError(tt.err), tt.err.Error())
	}
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Question string `json:"question"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"question":"b12?"}`},
		{name: "empty", body: ``, wantErr: "body must not be empty"},
		{name: "unknown field", body: `{"q":"x"}`, wantErr: `body contains unknown key "q"`},
		{name: "two values", body: `{"question":"a"}{"question":"b"}`, wantErr: "body must only contain a single JSON value"},
		{name: "wrong type", body: `{"question":1}`, wantErr: `incorrect JSON type for field "question"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSONBody(httptest.NewRecorder(), r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "b12?", dst.Question)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorResponse(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "Food not found")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"Food not found","request_id":""}`, rr.Body.String())
}
