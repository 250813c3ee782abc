// Package response defines the JSON envelope every endpoint answers with.
package response

import "stockledger/pkg/pagination"

// Response is the API envelope. Status is "success" or "error".
type Response struct {
	Status     string           `json:"status"`
	StatusCode int              `json:"status_code"`
	Data       interface{}      `json:"data,omitempty"`
	Meta       *pagination.Meta `json:"meta,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func Success(statusCode int, data interface{}) Response {
	return Response{Status: "success", StatusCode: statusCode, Data: data}
}

// Paged wraps one page of rows together with its pagination metadata.
func Paged(statusCode int, data interface{}, meta pagination.Meta) Response {
	return Response{Status: "success", StatusCode: statusCode, Data: data, Meta: &meta}
}

func Error(statusCode int, err string) Response {
	return Response{Status: "error", StatusCode: statusCode, Error: err}
}
