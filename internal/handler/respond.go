package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matchday/platform/internal/domain"
)

// errorResponse is the wire shape of every error the API returns.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError maps an error to the standard envelope. Domain errors keep
// their code and status even when wrapped by service-layer context; anything
// else is an opaque 500 so infrastructure detail never leaks to scoreboards.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		RespondJSON(w, appErr.Status, errorResponse{Code: appErr.Code, Message: appErr.Message})
		return
	}
	RespondJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	})
}

// DecodeJSON reads and decodes a JSON request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
