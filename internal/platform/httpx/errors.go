package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for handlers.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// RespondError maps err to a status and a Spanish message body.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, "Recurso no encontrado")
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, "El registro ya existe")
	case errors.Is(err, ErrConflict):
		Error(w, http.StatusConflict, "La operación no está permitida en el estado actual")
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, "Datos inválidos")
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, "No tienes permiso para realizar esta acción")
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "No autorizado")
	default:
		Error(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}
