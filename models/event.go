package models

import (
	"net/http"
	"time"
)

// Payload is the collector request body. One request carries exactly one event.
type Payload struct {
	ClientID           string                  `json:"client_id"`
	UserID             string                  `json:"user_id,omitempty"`
	TimestampMicros    int64                   `json:"timestamp_micros"`
	NonPersonalizedAds bool                    `json:"non_personalized_ads"`
	UserProperties     map[string]UserProperty `json:"user_properties,omitempty"`
	Events             []PayloadEvent          `json:"events"`
}

// UserProperty wraps a property value in the shape the collector expects.
type UserProperty struct {
	Value interface{} `json:"value"`
}

// PayloadEvent is a single named event with its parameters.
type PayloadEvent struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params"`
}

// Kind identifies which tracking operation produced an event.
type Kind string

const (
	KindEvent      Kind = "event"
	KindException  Kind = "exception"
	KindScreenView Kind = "screen_view"
	KindPageView   Kind = "page_view"
)

// ResponseRecord captures a completed collector response for the debug surface.
type ResponseRecord struct {
	Status     int         `json:"status"`
	StatusText string      `json:"status_text"`
	ClientID   string      `json:"client_id"`
	SessionID  string      `json:"session_id"`
	Body       string      `json:"body,omitempty"`
	Headers    http.Header `json:"headers,omitempty"`
}

// ErrorRecord captures a failed delivery attempt.
type ErrorRecord struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status,omitempty"`
	Body    string `json:"body,omitempty"`
}

// LastEvent is the snapshot of the most recently attempted tracking call.
// Overwritten unconditionally on every attempt, including failed and skipped
// ones. When a delivery was attempted, exactly one of Response or Error is
// set; when delivery was skipped for missing credentials, Skipped is true and
// both are nil.
type LastEvent struct {
	Kind      Kind            `json:"kind"`
	Category  string          `json:"category,omitempty"`
	Action    string          `json:"action,omitempty"`
	Label     string          `json:"label,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Skipped   bool            `json:"skipped,omitempty"`
	Response  *ResponseRecord `json:"response,omitempty"`
	Error     *ErrorRecord    `json:"error,omitempty"`
}
