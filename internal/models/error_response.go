package models

import "time"

// ErrorItem is the body of every non-2xx response
type ErrorItem struct {
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	URL         string            `json:"url"`
	StatusCode  int               `json:"statusCode"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func NewErrorItem(status int, message, url string) ErrorItem {
	return ErrorItem{
		Message:    message,
		Timestamp:  time.Now().UTC(),
		URL:        url,
		StatusCode: status,
	}
}
