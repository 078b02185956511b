package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

// maxBodyBytes caps request bodies; the intake form is a few KB at most.
const maxBodyBytes = 1 << 20

const (
	msgMethodNotAllowed = "Alleen POST requests toegestaan"
	msgInvalidJSON      = "Ongeldige JSON data"
	msgInvalidID        = "Ongeldig id"
	msgIntakeNotFound   = "Intake niet gevonden"
	msgServerError      = "Server fout"
)

// ErrorResponse is returned by login and the authenticated routes.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Ongeldige inloggegevens"`
}

// MessageResponse is returned by save-intake and by method checks.
type MessageResponse struct {
	Success bool     `json:"success" example:"false"`
	Message string   `json:"message" example:"Validatie fouten"`
	Errors  []string `json:"errors,omitempty"`
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeBody reads exactly one JSON value from dec.
func decodeBody(dec *json.Decoder, v any) error {
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageResponse{Success: false, Message: msg})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
