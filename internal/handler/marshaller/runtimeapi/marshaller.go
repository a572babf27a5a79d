// Package runtimeapi marshals the Runtime Interface's worker-facing wire
// types: the fixed status/error shapes posted back from the deposit
// endpoints (spec.md §6), grounded on original_source/src/types.rs's
// StatusResponse/ErrorResponse pair.
package runtimeapi

import "encoding/json"

// StatusResponse is the 202 body returned on a successful deposit.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the 500 body returned when a deposit targets an unknown
// or already-consumed invocation id (spec.md §7's NoMailbox edge case).
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorType    string `json:"errorType"`
}

// NoResponse is the canonical ErrorType for a deposit with no mailbox.
const NoResponse = "NoResponse"

// MarshalStatus builds the body for a successful deposit.
func MarshalStatus(status string) ([]byte, error) {
	return json.Marshal(StatusResponse{Status: status})
}

// MarshalError builds the body for a failed deposit.
func MarshalError(message, errType string) ([]byte, error) {
	return json.Marshal(ErrorResponse{ErrorMessage: message, ErrorType: errType})
}
