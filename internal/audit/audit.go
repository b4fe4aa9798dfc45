package audit

import (
	"context"
	"log/slog"
	"studio-service/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeAccount    ResourceType = "client_account"
	ResourceTypeProfile    ResourceType = "profile"
	ResourceTypeProject    ResourceType = "project"
	ResourceTypeBrief      ResourceType = "brief"
	ResourceTypeMilestone  ResourceType = "milestone"
	ResourceTypeAssignment ResourceType = "assignment"
	ResourceTypeAsset      ResourceType = "asset"
	ResourceTypeJob        ResourceType = "creator_job"
	ResourceTypePayment    ResourceType = "creator_payment"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionFinalize   Action = "finalize"
	ActionRemove     Action = "remove"
	ActionApprove    Action = "approve"
	ActionTransition Action = "transition"
	ActionPublish    Action = "publish"
	ActionComplete   Action = "complete"
	ActionReview     Action = "review"
	ActionProvision  Action = "provision"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

const (
	defaultWriteTimeout = 2 * time.Second
	defaultQueryLimit   = 100
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID      `json:"id"`
	EventType    string         `json:"event_type"`
	ActorType    ActorType      `json:"actor_type"`
	ActorID      *uuid.UUID     `json:"actor_id,omitempty"`
	ResourceType ResourceType   `json:"resource_type"`
	ResourceID   *uuid.UUID     `json:"resource_id,omitempty"`
	Action       Action         `json:"action"`
	Status       Status         `json:"status"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type QueryFilter struct {
	ActorID      *uuid.UUID
	ResourceType *ResourceType
	ResourceID   *uuid.UUID
	Action       *Action
	Status       *Status
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int
	Offset       int
}

// Store persists and reads back audit events.
type Store interface {
	Insert(ctx context.Context, event *Event) error
	Query(ctx context.Context, filter QueryFilter) ([]*Event, error)
}

// Logger writes events in the background so the request that caused them
// never waits on the audit table.
type Logger struct {
	store   Store
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewLogger(store Store, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{store: store, log: log, timeout: defaultWriteTimeout}
}

// Record fills in ids, timestamps and request metadata from ctx, then
// inserts asynchronously.
func (l *Logger) Record(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.Status == "" {
		event.Status = StatusSuccess
	}
	if event.EventType == "" {
		event.EventType = string(event.Action) + "_" + string(event.ResourceType)
	}
	if event.ActorType == "" {
		event.ActorType = ActorTypeSystem
		if event.ActorID != nil {
			event.ActorType = ActorTypeUser
		}
	}
	event.Metadata = logger.RedactMap(event.Metadata)
	event.ErrorMessage = logger.Redact(event.ErrorMessage)
	if info, ok := requestFrom(ctx); ok {
		event.IPAddress = info.IPAddress
		event.UserAgent = info.UserAgent
		event.RequestID = info.RequestID
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		writeCtx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		if err := l.store.Insert(writeCtx, &event); err != nil {
			l.log.Error("audit log failed",
				slog.String("event_type", event.EventType),
				slog.String("request_id", event.RequestID),
				slog.Any("error", err))
		}
	}()
}

func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultQueryLimit
	}
	return l.store.Query(ctx, filter)
}

// Wait blocks until every pending write has finished.
func (l *Logger) Wait() {
	l.wg.Wait()
}
