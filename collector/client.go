// Package collector builds measurement-protocol payloads and delivers them
// to the analytics collector endpoint.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"telemetry/config"
	"telemetry/models"
)

const collectPath = "/mp/collect"

// responseBodyLimit caps how much of the collector response is retained in
// the last-event snapshot.
const responseBodyLimit = 16 << 10

// DeliveryError is returned when a send attempt fails: transport errors,
// timeouts, and non-2xx collector responses. Status and Body are set when a
// response was received.
type DeliveryError struct {
	Message string
	Code    string
	Status  int
	Body    string
}

func (e *DeliveryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("collector: %s (status %d)", e.Message, e.Status)
	}
	return "collector: " + e.Message
}

// Record converts the error into a snapshot error record.
func (e *DeliveryError) Record() *models.ErrorRecord {
	return &models.ErrorRecord{
		Message: e.Message,
		Code:    e.Code,
		Status:  e.Status,
		Body:    e.Body,
	}
}

// Client performs single-shot deliveries to the collector. No retries,
// queueing, or batching.
type Client struct {
	cfg  *config.Config
	http *http.Client
}

// NewClient creates a delivery client bounded by the configured timeout.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

// Enabled reports whether delivery credentials are configured.
func (c *Client) Enabled() bool { return c.cfg.Enabled() }

// Send POSTs the payload to the collector. When credentials are missing the
// call is skipped entirely: a warning is logged and (nil, nil) is returned
// with no network attempt. Otherwise the returned record describes the
// collector response, or a *DeliveryError describes the failure.
func (c *Client) Send(ctx context.Context, payload *models.Payload) (*models.ResponseRecord, error) {
	if !c.Enabled() {
		log.Print("collector: measurement id or api secret not configured, delivery skipped")
		return nil, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &DeliveryError{Message: fmt.Sprintf("encode payload: %v", err), Code: "encode"}
	}

	endpoint := c.cfg.BaseURL + collectPath + "?" + url.Values{
		"measurement_id": {c.cfg.MeasurementID},
		"api_secret":     {c.cfg.APISecret},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &DeliveryError{Message: fmt.Sprintf("build request: %v", err), Code: "request"}
	}
	req.Header.Set("Content-Type", "application/json")

	if c.cfg.Debug {
		log.Printf("collector: POST %s%s body=%s", c.cfg.BaseURL, collectPath, body)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		code := "connection"
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			code = "timeout"
		}
		return nil, &DeliveryError{Message: err.Error(), Code: code}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return nil, &DeliveryError{Message: fmt.Sprintf("read response: %v", err), Code: "read", Status: resp.StatusCode}
	}

	if c.cfg.Debug {
		log.Printf("collector: response %s body=%q", resp.Status, respBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DeliveryError{
			Message: fmt.Sprintf("collector returned %s", resp.Status),
			Code:    "status",
			Status:  resp.StatusCode,
			Body:    string(respBody),
		}
	}

	return &models.ResponseRecord{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		ClientID:   payload.ClientID,
		SessionID:  sessionIDOf(payload),
		Body:       string(respBody),
		Headers:    resp.Header.Clone(),
	}, nil
}

func sessionIDOf(payload *models.Payload) string {
	if len(payload.Events) == 0 {
		return ""
	}
	if id, ok := payload.Events[0].Params["session_id"].(string); ok {
		return id
	}
	return ""
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
