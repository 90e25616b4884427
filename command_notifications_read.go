package workhive

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type MarkNotificationsReadMessage struct {
	AccountID uuid.UUID `json:"account_id"`
	// NotificationID narrows the transition to a single owned row when set
	NotificationID uuid.UUID `json:"notification_id,omitempty"`
}

func (e MarkNotificationsReadMessage) Type() string { return "notifications.mark_read" }

type MarkNotificationsReadResult struct {
	UpdatedCount int64 `json:"updated_count"`
}

// MarkNotificationsReadHandler runs the owner-scoped unread→read transition.
// Callers must have authenticated already; AccountID comes from verified
// claims, never from the request body.
type MarkNotificationsReadHandler struct {
	repo     RepositoryManager
	logger   Logger
	activity ActivitySink
}

func NewMarkNotificationsReadHandler(repo RepositoryManager) *MarkNotificationsReadHandler {
	return &MarkNotificationsReadHandler{
		repo:     repo,
		logger:   defLogger{},
		activity: noopActivitySink{},
	}
}

// WithActivitySink wires an audit sink for read transitions.
func (h *MarkNotificationsReadHandler) WithActivitySink(sink ActivitySink) *MarkNotificationsReadHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *MarkNotificationsReadHandler) WithLogger(logger Logger) *MarkNotificationsReadHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *MarkNotificationsReadHandler) Execute(ctx context.Context, event MarkNotificationsReadMessage) (*MarkNotificationsReadResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during notification update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *MarkNotificationsReadHandler) execute(ctx context.Context, event MarkNotificationsReadMessage) (*MarkNotificationsReadResult, error) {
	if event.AccountID == uuid.Nil {
		return nil, goerrors.New("missing account id", goerrors.CategoryBadInput).
			WithTextCode(TextCodeValidationFailed)
	}

	var updated int64
	var err error

	if event.NotificationID != uuid.Nil {
		updated, err = h.repo.Notifications().MarkRead(ctx, event.AccountID, event.NotificationID)
	} else {
		updated, err = h.repo.Notifications().MarkAllRead(ctx, event.AccountID)
	}

	if err != nil {
		h.logger.Error("notification read transition failed", "error", err, "account_id", event.AccountID)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update notifications")
	}

	if updated > 0 {
		record := ActivityEvent{
			EventType:  ActivityEventNotificationsRead,
			AccountID:  event.AccountID.String(),
			Metadata:   map[string]any{"updated_count": updated},
			OccurredAt: time.Now(),
		}
		if err := h.activity.Record(ctx, record); err != nil {
			h.logger.Warn("activity sink record failed", "error", err)
		}
	}

	return &MarkNotificationsReadResult{UpdatedCount: updated}, nil
}
