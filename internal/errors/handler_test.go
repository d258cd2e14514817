package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabinsight/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantBody    Envelope
		wantLevel   slog.Level
		wantMessage string
	}{
		{
			name:        "validation error",
			err:         Validation("too few variables"),
			wantStatus:  http.StatusBadRequest,
			wantBody:    Envelope{Status: StatusError, Message: "too few variables"},
			wantLevel:   slog.LevelWarn,
			wantMessage: "request rejected",
		},
		{
			name:        "conflict",
			err:         Conflict("std_a.csv already exists"),
			wantStatus:  http.StatusOK,
			wantBody:    Envelope{Status: StatusExists, Message: "std_a.csv already exists"},
			wantLevel:   slog.LevelInfo,
			wantMessage: "save requires confirmation",
		},
		{
			name:        "wrapped computation error",
			err:         fmt.Errorf("clean: %w", Computation(errors.New("overflow"))),
			wantStatus:  http.StatusInternalServerError,
			wantBody:    Envelope{Status: StatusError, Message: "clean: overflow"},
			wantLevel:   slog.LevelError,
			wantMessage: "request failed",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantStatus:  http.StatusGatewayTimeout,
			wantBody:    Envelope{Status: StatusError, Message: ErrRequestTimeout.Message},
			wantLevel:   slog.LevelError,
			wantMessage: "request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/clean", nil)
			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body Envelope
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body)

			records := buf.RecordsByLevel(tt.wantLevel)
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantMessage, records[0].Message)
		})
	}
}

func TestErrorHandler_NilError(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger)
	w := httptest.NewRecorder()

	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
}
