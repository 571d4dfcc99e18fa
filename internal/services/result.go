package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Payload is the JSON body sent back with a Result.
type Payload map[string]any

// Result is the business outcome of a service call: the status code and body
// the HTTP layer writes verbatim. Expected conditions such as invalid input or
// a missing row are Results, never errors.
type Result struct {
	StatusCode int
	Payload    Payload
}

func ok(key string, value any) Result {
	return Result{StatusCode: http.StatusOK, Payload: Payload{key: value}}
}

func created(key string, value any) Result {
	return Result{StatusCode: http.StatusCreated, Payload: Payload{key: value}}
}

func message(statusCode int, msg string) Result {
	return Result{StatusCode: statusCode, Payload: Payload{"message": msg}}
}

func badRequest(msg string) Result {
	return message(http.StatusBadRequest, msg)
}

func notFound(msg string) Result {
	return message(http.StatusNotFound, msg)
}

const invalidUUIDMessage = "uuid is invalid"

// persistenceError wraps an unexpected store failure with the operation it broke.
func persistenceError(operation string, err error) error {
	return fmt.Errorf("persistence error during %s: %w", operation, err)
}

// EventPublisher receives domain events after successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload map[string]any) error
}

// Domain events emitted by the services.
const (
	EventUserCreated     = "user.created"
	EventUserUpdated     = "user.updated"
	EventUserDeleted     = "user.deleted"
	EventGroupCreated    = "group.created"
	EventGroupUpdated    = "group.updated"
	EventGroupDeleted    = "group.deleted"
	EventUserGroupsAdded = "userGroups.added"
)

// publish sends an event if a publisher is configured. A failed publish is
// logged and otherwise ignored.
func publish(ctx context.Context, events EventPublisher, log zerolog.Logger, event string, payload map[string]any) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event, payload); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("failed to publish event")
	}
}
