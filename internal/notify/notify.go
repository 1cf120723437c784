package notify

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/apperror"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a short message shown to the visitor once.
type Notification struct {
	Severity  Severity
	Message   string
	CreatedAt time.Time
}

type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// MessageFor returns the text shown to the visitor for err. Internal errors
// never leak their message.
func MessageFor(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code != http.StatusInternalServerError {
		return appErr.Message
	}
	return "something went wrong, please try again."
}

// Inbox is a bounded queue of notifications for one workflow session.
// When full, the oldest notification is dropped.
type Inbox struct {
	mu     sync.Mutex
	items  []Notification
	limit  int
	logger *zap.Logger
	now    func() time.Time
}

func NewInbox(limit int, logger *zap.Logger) *Inbox {
	return &Inbox{
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

func (b *Inbox) Notify(ctx context.Context, severity Severity, message string) {
	b.logger.Debug("notification", zap.String("severity", string(severity)), zap.String("message", message))

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit > 0 && len(b.items) >= b.limit {
		b.items = b.items[1:]
	}
	b.items = append(b.items, Notification{
		Severity:  severity,
		Message:   message,
		CreatedAt: b.now().UTC(),
	})
}

// Drain returns the pending notifications oldest first and empties the inbox.
func (b *Inbox) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.items
	b.items = nil
	return out
}
