// internal/common/utils/response.go
// JSON envelopes shared by every handler

package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the standard API response structure
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// RespondWithJSON sends a JSON response with the specified status code and payload
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"error marshaling JSON"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// RespondWithData wraps data in a success envelope
func RespondWithData(w http.ResponseWriter, code int, data interface{}, message string) {
	RespondWithJSON(w, code, Response{Success: true, Data: data, Message: message})
}

// RespondWithError sends an error envelope. errCode is a stable machine
// readable identifier such as "requester_not_found".
func RespondWithError(w http.ResponseWriter, status int, errCode, message string) {
	RespondWithJSON(w, status, Response{Success: false, Error: message, Code: errCode})
}
