package handlers

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string      `json:"status"`
	Message interface{} `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Length  interface{} `json:"length,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// Success writes the success envelope.
func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, Response{Status: "success", Message: message, Data: data})
}

// SuccessWithLength writes the success envelope including the length field
// used by listing endpoints.
func SuccessWithLength(w http.ResponseWriter, statusCode int, message string, data interface{}, length int) {
	writeJSON(w, statusCode, Response{Status: "success", Message: message, Data: data, Length: length})
}

// Error writes the error envelope. message is either a human-readable string
// or a field-to-reason map for validation failures.
func Error(w http.ResponseWriter, statusCode int, message interface{}) {
	writeJSON(w, statusCode, Response{Status: "error", Message: message})
}
