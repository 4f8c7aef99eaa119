package collector

import (
	"strings"
	"time"

	"telemetry/models"
	"telemetry/properties"
)

// Session supplies the per-process session state consumed while building a
// payload. Implemented by session.Tracker.
type Session interface {
	ID() string
	ConsumeEngagementTime() time.Duration
}

// Properties supplies the user property set. Implemented by
// properties.Registry.
type Properties interface {
	Snapshot() map[string]string
}

// EventName maps a category/action pair to the wire event name:
// lowercase(category + "_" + action) with internal whitespace collapsed to
// underscores. This mapping determines collector-side event identity and
// must stay stable: ("Application", "Second Instance") ->
// "application_second_instance".
func EventName(category, action string) string {
	joined := strings.Join(strings.Fields(category+" "+action), "_")
	return strings.ToLower(joined)
}

// Params that BuildPayload copies from the property snapshot into every
// event's params, alongside the full snapshot sent as user_properties.
var eventScopedProps = []string{
	properties.PropAppName,
	properties.PropAppVersion,
	properties.PropPlatform,
	properties.PropOSVersion,
	properties.PropLocale,
	properties.PropDeviceModel,
}

// BuildPayload assembles the collector request body for a single event.
// Caller params are merged with engagement time, session id, and the fixed
// app/device/platform/locale field set; the property snapshot becomes
// user_properties. Consumes one engagement-time interval from sess.
func BuildPayload(name string, params map[string]interface{}, clientID string, sess Session, props Properties, now time.Time) *models.Payload {
	snapshot := props.Snapshot()

	merged := make(map[string]interface{}, len(params)+len(eventScopedProps)+2)
	for k, v := range params {
		merged[k] = v
	}
	merged["engagement_time_msec"] = sess.ConsumeEngagementTime().Milliseconds()
	merged["session_id"] = sess.ID()
	for _, k := range eventScopedProps {
		if v, ok := snapshot[k]; ok {
			merged[k] = v
		}
	}

	userProps := make(map[string]models.UserProperty, len(snapshot))
	for k, v := range snapshot {
		userProps[k] = models.UserProperty{Value: v}
	}

	return &models.Payload{
		ClientID:           clientID,
		UserID:             clientID,
		TimestampMicros:    now.UnixMicro(),
		NonPersonalizedAds: false,
		UserProperties:     userProps,
		Events: []models.PayloadEvent{
			{Name: name, Params: merged},
		},
	}
}
