// Package httpx junta los helpers JSON que antes estaban duplicados en cada handler.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"axolotary/internal/platform/validation"
)

// MaxBodyBytes limita el body de requests JSON.
const MaxBodyBytes = 1 << 20

var ErrInvalidJSON = errors.New("invalid json")

type messageResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage responde {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, messageResponse{Message: msg})
}

// Decode lee JSON estricto (sin campos desconocidos) y valida tags `validate`.
// Devuelve ErrInvalidJSON o validation.FieldErrors.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidJSON
	}
	return validation.Struct(dst)
}

// WriteDecodeError traduce un error de Decode a 400.
func WriteDecodeError(w http.ResponseWriter, err error) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		WriteJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid input", Errors: fe})
		return
	}
	WriteMessage(w, http.StatusBadRequest, "invalid json")
}
