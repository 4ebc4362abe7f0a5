// Package stream routes DynamoDB Streams events to per-entity handlers.
//
// Tables that store several entity kinds carry a discriminator attribute on
// every item. A [Router] reads it from each stream record and dispatches to
// the handler registered for that kind, converting the Lambda event types
// into SDK attribute values on the way so handlers work with the same
// [types.AttributeValue] values the rest of the module uses.
package stream

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultDiscriminator is the attribute consulted for an item's entity kind
// when RouterConfig does not name one.
const DefaultDiscriminator = "entity_type"

// ChangeType identifies what happened to the item.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeModify ChangeType = "MODIFY"
	ChangeRemove ChangeType = "REMOVE"
)

// Change is one stream record with its images converted to SDK attribute
// values. OldImage is empty for inserts, NewImage for removes; both are
// populated only when the stream's view type includes them.
type Change struct {
	Type       ChangeType
	EntityType string
	Keys       map[string]types.AttributeValue
	OldImage   map[string]types.AttributeValue
	NewImage   map[string]types.AttributeValue
	EventID    string
}

// Handler processes one converted stream record.
type Handler func(ctx context.Context, change Change) error

// RouterConfig configures a Router.
type RouterConfig struct {
	// Discriminator is the attribute holding the entity kind. Defaults to
	// DefaultDiscriminator.
	Discriminator string
}

// Router dispatches stream records by entity kind. Register handlers before
// serving; Router is not safe for concurrent registration.
type Router struct {
	discriminator string
	handlers      map[string]Handler
	fallback      Handler
	logger        *slog.Logger
}

// NewRouter creates a router. A nil logger falls back to slog.Default.
func NewRouter(cfg RouterConfig, logger *slog.Logger) *Router {
	if cfg.Discriminator == "" {
		cfg.Discriminator = DefaultDiscriminator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		discriminator: cfg.Discriminator,
		handlers:      make(map[string]Handler),
		logger:        logger,
	}
}

// Register installs the handler for one entity kind, replacing any previous
// registration.
func (r *Router) Register(entityType string, h Handler) *Router {
	r.handlers[entityType] = h
	return r
}

// Fallback installs the handler for records whose entity kind has no
// registration. Without one such records are skipped.
func (r *Router) Fallback(h Handler) *Router {
	r.fallback = h
	return r
}

// Route processes a stream event record by record. The first handler error
// aborts the batch and is returned, leaving the Lambda runtime to retry it.
// This function is designed to be used as an AWS Lambda handler.
func (r *Router) Route(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := r.routeRecord(ctx, record); err != nil {
			r.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// routeRecord converts and dispatches a single stream record.
func (r *Router) routeRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	change := Change{
		Type:     ChangeType(record.EventName),
		Keys:     ConvertImage(record.Change.Keys),
		OldImage: ConvertImage(record.Change.OldImage),
		NewImage: ConvertImage(record.Change.NewImage),
		EventID:  record.EventID,
	}
	change.EntityType = r.entityType(change)

	h, ok := r.handlers[change.EntityType]
	if !ok {
		h = r.fallback
	}
	if h == nil {
		r.logger.Debug("no handler for record",
			"eventID", change.EventID,
			"entityType", change.EntityType,
		)
		return nil
	}
	return h(ctx, change)
}

// entityType reads the discriminator, preferring the new image so renames
// take effect immediately. Removes carry only the old image.
func (r *Router) entityType(change Change) string {
	if v := StringAttr(change.NewImage, r.discriminator); v != "" {
		return v
	}
	if v := StringAttr(change.OldImage, r.discriminator); v != "" {
		return v
	}
	return StringAttr(change.Keys, r.discriminator)
}
