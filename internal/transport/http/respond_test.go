package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.Invalid("bad field"), http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusBadRequest},
		{domain.ErrOTPExpired, http.StatusBadRequest},
		{domain.ErrInsufficientStock, http.StatusBadRequest},
		{domain.ErrPaymentIncomplete, http.StatusBadRequest},
		{errors.New("pq: connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/test", nil)
			writeError(rec, req, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error == "" {
				t.Fatal("empty error body")
			}
		})
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/test", nil)
	writeError(rec, req, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	if strings.Contains(rec.Body.String(), "10.0.0.1") {
		t.Fatal("internal error detail leaked to the client")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"email":"a@b.co","password":"x","extra":true}`))
	var dest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decode(req, &dest)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
