// Package tracker exposes the tracking entry points composing identity,
// session, property, delivery, and mirror state.
package tracker

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"telemetry/collector"
	"telemetry/config"
	"telemetry/identity"
	"telemetry/mirror"
	"telemetry/models"
	"telemetry/properties"
	"telemetry/session"
)

// Sender delivers a payload to the collector. Implemented by
// collector.Client.
type Sender interface {
	Send(ctx context.Context, payload *models.Payload) (*models.ResponseRecord, error)
}

// Options carries the optional fields of a generic event.
type Options struct {
	Label string
	Value *int64
}

// policy decides what a tracking operation does with a delivery failure.
type policy int

const (
	// propagate returns the failure to the caller after recording it.
	propagate policy = iota
	// suppress records and logs the failure but returns nil.
	suppress
)

// Tracker is the tracking facade. Construct one per process via New; its
// components live for the process lifetime.
type Tracker struct {
	ids    *identity.Store
	sess   collector.Session
	props  *properties.Registry
	client Sender
	mirror *mirror.Channel
	hist   *History
	now    func() time.Time

	mu   sync.Mutex
	last *models.LastEvent
}

// New wires a production Tracker from configuration.
func New(cfg *config.Config) *Tracker {
	return &Tracker{
		ids:    identity.NewStore(cfg.ClientIDFile, cfg.AppID),
		sess:   session.New(nil),
		props:  properties.New(cfg),
		client: collector.NewClient(cfg),
		mirror: mirror.NewChannel(cfg.Debug),
		hist:   NewHistory(),
		now:    time.Now,
	}
}

// Mirror returns the mirror channel so the host can register the focused
// UI surface.
func (t *Tracker) Mirror() *mirror.Channel { return t.mirror }

// Properties returns the property registry for ad hoc overrides.
func (t *Tracker) Properties() *properties.Registry { return t.props }

// TrackEvent sends a generic category/action event. The wire event name is
// the normalized lowercase(category_action) form. Delivery failures are
// recorded in the last-event snapshot and returned to the caller.
func (t *Tracker) TrackEvent(ctx context.Context, category, action string, opts *Options) error {
	params := map[string]interface{}{
		"event_category": category,
		"event_action":   action,
	}
	call := mirror.Call{Kind: models.KindEvent, Category: category, Action: action}
	var label string
	if opts != nil {
		label = opts.Label
		if opts.Label != "" {
			params["event_label"] = opts.Label
			call.Label = opts.Label
		}
		if opts.Value != nil {
			params["event_value"] = *opts.Value
			call.Value = opts.Value
		}
	}
	return t.dispatch(ctx, request{
		kind:     models.KindEvent,
		name:     collector.EventName(category, action),
		params:   params,
		category: category,
		action:   action,
		label:    label,
		policy:   propagate,
		call:     call,
	})
}

// TrackException sends an exception event. Failures never reach the caller;
// instrumenting an error path must not create a second one.
func (t *Tracker) TrackException(ctx context.Context, description string, fatal bool) {
	t.dispatch(ctx, request{
		kind: models.KindException,
		name: "exception",
		params: map[string]interface{}{
			"description": description,
			"fatal":       fatal,
		},
		policy: suppress,
		call:   mirror.Call{Kind: models.KindException, Description: description, Fatal: fatal},
	})
}

// TrackScreen sends a screen_view event with a synthetic page location.
// Failures never reach the caller.
func (t *Tracker) TrackScreen(ctx context.Context, screenName string) {
	path := "/screens/" + strings.ToLower(screenName)
	t.dispatch(ctx, request{
		kind: models.KindScreenView,
		name: "screen_view",
		params: map[string]interface{}{
			"screen_name":   screenName,
			"page_title":    screenName,
			"page_location": path,
			"entrances":     1,
		},
		policy: suppress,
		call:   mirror.Call{Kind: models.KindScreenView, Path: path, Title: screenName},
	})
}

// TrackPageView sends a page_view event. Failures never reach the caller.
func (t *Tracker) TrackPageView(ctx context.Context, hostname, url, title string) {
	t.dispatch(ctx, request{
		kind: models.KindPageView,
		name: "page_view",
		params: map[string]interface{}{
			"page_location": url,
			"page_title":    title,
			"hostname":      hostname,
		},
		policy: suppress,
		call:   mirror.Call{Kind: models.KindPageView, Path: url, Title: title},
	})
}

// LastEvent returns a copy of the most recently attempted event snapshot, or
// nil if nothing has been tracked.
func (t *Tracker) LastEvent() *models.LastEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return nil
	}
	snapshot := *t.last
	return &snapshot
}

// RecentEvents lists the retained event snapshots, newest first.
func (t *Tracker) RecentEvents() []models.LastEvent {
	return t.hist.Recent()
}

// RunDebugEvent is a pass-through to TrackEvent for manual invocation from
// an external debug panel.
func (t *Tracker) RunDebugEvent(ctx context.Context, category, action, label string) error {
	var opts *Options
	if label != "" {
		opts = &Options{Label: label}
	}
	return t.TrackEvent(ctx, category, action, opts)
}

// request is one pass through the shared dispatch path.
type request struct {
	kind     models.Kind
	name     string
	params   map[string]interface{}
	category string
	action   string
	label    string
	policy   policy
	call     mirror.Call
}

// dispatch builds the payload (consuming one engagement-time interval),
// sends it, records the snapshot, forwards to the mirror, and applies the
// request's failure policy. The only state shared between concurrent
// dispatches is the session baseline (serialized in the session tracker) and
// the snapshot cell (last write wins, but each write is atomic).
func (t *Tracker) dispatch(ctx context.Context, req request) error {
	payload := collector.BuildPayload(req.name, req.params, t.ids.Resolve(), t.sess, t.props, t.now())

	rec, err := t.client.Send(ctx, payload)

	snap := &models.LastEvent{
		Kind:      req.kind,
		Category:  req.category,
		Action:    req.action,
		Label:     req.label,
		Timestamp: t.now(),
	}
	switch {
	case err != nil:
		var derr *collector.DeliveryError
		if errors.As(err, &derr) {
			snap.Error = derr.Record()
		} else {
			snap.Error = &models.ErrorRecord{Message: err.Error()}
		}
	case rec != nil:
		snap.Response = rec
	default:
		snap.Skipped = true
	}
	t.record(snap)

	t.mirror.Forward(req.call)

	if err != nil {
		if req.policy == propagate {
			return err
		}
		log.Printf("tracker: %s delivery failed: %v", req.name, err)
	}
	return nil
}

func (t *Tracker) record(snap *models.LastEvent) {
	t.mu.Lock()
	t.last = snap
	t.mu.Unlock()
	t.hist.Add(snap)
}
