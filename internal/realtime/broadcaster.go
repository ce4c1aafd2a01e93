// Package realtime fans server-side mutations out to subscribed browser
// tabs. Mutation handlers publish named events to named channels through
// the relay; the hub bridges relay traffic onto WebSocket connections.
//
// Delivery is best effort: no ordering across channels, no acknowledgment,
// no replay. Subscribers treat events as hints and refetch when in doubt.
package realtime

import (
	"context"
	"encoding/json"
)

// Channel and event names shared with the browser clients.
const (
	TasksChannel = "tasks"

	EventTaskCreated = "task:created"
	EventTaskUpdated = "task:updated"
	EventTaskDeleted = "task:deleted"

	EventNewMessage = "new-message"
)

// TeamChannel returns the per-team chat channel name.
func TeamChannel(teamID string) string {
	return "team-" + teamID
}

// Event is one broadcast as it travels through the relay.
type Event struct {
	Channel string          `json:"channel"`
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Broadcaster publishes events to the relay. Implementations must not
// block the caller beyond the context deadline; publish failures are the
// caller's to log and swallow.
type Broadcaster interface {
	Publish(ctx context.Context, channel, event string, payload interface{}) error
}

// NewEvent marshals a payload into an Event envelope.
func NewEvent(channel, name string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Channel: channel, Name: name, Payload: raw}, nil
}
