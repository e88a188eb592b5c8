package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"empenglish-backend/internal/practice"
)

func TestHandlePracticeError_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", practice.ErrSessionNotFound, http.StatusNotFound},
		{"turn not found", practice.ErrTurnNotFound, http.StatusNotFound},
		{"session not ongoing", practice.ErrSessionNotOngoing, http.StatusConflict},
		{"turn session mismatch", practice.ErrTurnSessionMismatch, http.StatusBadRequest},
		{"turn already scored", practice.ErrTurnAlreadyScored, http.StatusConflict},
		{"no questions available", practice.ErrNoQuestionsAvailable, http.StatusConflict},
		{"premium required", practice.ErrPremiumRequired, http.StatusForbidden},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/practice-sessions", nil)
			rr := httptest.NewRecorder()

			handlePracticeError(rr, req, tc.err)

			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestHandlePracticeError_WrappedError(t *testing.T) {
	wrapped := errors.New("load session: " + practice.ErrSessionNotFound.Error())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/practice-sessions", nil)
	rr := httptest.NewRecorder()

	// A plain string match is not enough; only errors.Is chains map to
	// their status.
	handlePracticeError(rr, req, wrapped)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 for unrelated error, got %d", rr.Code)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		key      string
		fallback int
		want     int
	}{
		{"parses value", "/x?limit=25", "limit", 20, 25},
		{"missing uses fallback", "/x", "limit", 20, 20},
		{"non-numeric uses fallback", "/x?limit=abc", "limit", 20, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if got := queryInt(req, tc.key, tc.fallback); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestErrorRespIncludesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Session not found", req)
	if resp.Error.Code != "NOT_FOUND" {
		t.Fatalf("unexpected code %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Fatalf("expected request id to be propagated, got %q", resp.Error.RequestID)
	}
}
