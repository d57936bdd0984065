package middleware

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform body of every API response
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success builds a successful envelope
func Success(message string, data interface{}) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Failure builds a failed envelope; failures never carry data
func Failure(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// RespondSuccess writes a successful envelope. A zero status means 200.
func RespondSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	RespondWithJSON(w, statusCode, Success(message, data))
}

// RespondWithError writes a failed envelope. A zero status means 400.
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	RespondWithJSON(w, statusCode, Failure(message))
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
