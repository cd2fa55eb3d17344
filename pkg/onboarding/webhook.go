package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EventUserCreated is the identity provider event that registers a user.
const EventUserCreated = "user.created"

// WebhookEvent is an identity provider notification.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ParseWebhook decodes an event. Both the bare event and the {"evt": {...}}
// envelope are accepted. Events without an id get a generated one so they can
// be traced in logs.
func ParseWebhook(body []byte) (WebhookEvent, error) {
	var envelope struct {
		Event *WebhookEvent `json:"evt"`
		WebhookEvent
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: decode webhook: %v", ErrInvalidInput, err)
	}
	event := envelope.WebhookEvent
	if envelope.Event != nil {
		event = *envelope.Event
	}
	event.Type = strings.TrimSpace(event.Type)
	if event.Type == "" {
		return WebhookEvent{}, fmt.Errorf("%w: webhook event without type", ErrInvalidInput)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return event, nil
}

// HandleWebhook applies event. handled is false for event types that are
// ignored. Repeated user.created events for the same identity return the
// existing user.
func (s *Service) HandleWebhook(ctx context.Context, event WebhookEvent) (User, bool, error) {
	switch event.Type {
	case EventUserCreated:
		user, created, err := s.EnsureUser(ctx, event.Data.ID)
		if err != nil {
			return User{}, true, err
		}
		s.logger.InfoContext(ctx, "webhook applied", "event_id", event.ID, "type", event.Type, "created", created)
		return user, true, nil
	default:
		s.logger.DebugContext(ctx, "webhook ignored", "event_id", event.ID, "type", event.Type)
		return User{}, false, nil
	}
}
