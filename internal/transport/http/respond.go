package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unmapped is a
// 500 with a generic body; the real error goes to the log only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Msg})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrOTPExpired),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrEmailNotVerified),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrPaymentIncomplete),
		errors.Is(err, domain.ErrNotInCart),
		errors.Is(err, domain.ErrAlreadyFavourite),
		errors.Is(err, domain.ErrApplicationPending),
		errors.Is(err, domain.ErrAlreadyProvider),
		errors.Is(err, domain.ErrNoPendingApplication):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		slog.Default().Error("unhandled error", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decode rejects bodies with unknown fields so typos fail loudly.
func decode(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return domain.Invalid("malformed request body")
	}
	return nil
}
