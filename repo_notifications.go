package workhive

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Notifications is the notifications store surface
type Notifications interface {
	repository.Repository[*Notification]

	ListByOwner(ctx context.Context, accountID uuid.UUID, unreadOnly bool) ([]*Notification, error)

	// MarkAllRead transitions every unread notification owned by accountID to
	// read and returns the number of rows actually transitioned.
	MarkAllRead(ctx context.Context, accountID uuid.UUID) (int64, error)
	MarkAllReadTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (int64, error)

	MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, accountID uuid.UUID) (int, error)
}

type notifications struct {
	repository.Repository[*Notification]
	db *bun.DB
}

var (
	_ Notifications                        = (*notifications)(nil)
	_ repository.Repository[*Notification] = (*notifications)(nil)
)

func NewNotificationsRepository(db *bun.DB) Notifications {
	repo := repository.NewRepository[*Notification](db, repository.ModelHandlers[*Notification]{
		NewRecord: func() *Notification { return &Notification{} },
		GetID: func(n *Notification) uuid.UUID {
			if n == nil {
				return uuid.Nil
			}
			return n.ID
		},
		SetID: func(n *Notification, id uuid.UUID) {
			if n != nil {
				n.ID = id
			}
		},
	})

	return &notifications{
		Repository: repo,
		db:         db,
	}
}

func (r *notifications) ListByOwner(ctx context.Context, accountID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	var records []*Notification

	q := r.db.NewSelect().Model(&records).
		Where("?TableAlias.account_id = ?", accountID).
		Order("created_at DESC")

	if unreadOnly {
		q = q.Where("?TableAlias.is_read = ?", false)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *notifications) MarkAllRead(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return r.MarkAllReadTx(ctx, r.db, accountID)
}

// MarkAllReadTx is a single conditional update: the owner + unread predicate
// gives idempotent convergence and keeps concurrent duplicate calls from
// double-counting a row, with no read-then-write window.
func (r *notifications) MarkAllReadTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (int64, error) {
	now := time.Now()

	res, err := tx.NewUpdate().
		Model((*Notification)(nil)).
		Set("is_read = ?", true).
		Set("read_at = ?", now).
		Set("updated_at = ?", now).
		Where("?TableAlias.account_id = ?", accountID).
		Where("?TableAlias.is_read = ?", false).
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// MarkRead transitions a single owned notification. The owner predicate makes
// a foreign id a no-op rather than an error, so the count tells the caller
// whether anything changed.
func (r *notifications) MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) (int64, error) {
	now := time.Now()

	res, err := r.db.NewUpdate().
		Model((*Notification)(nil)).
		Set("is_read = ?", true).
		Set("read_at = ?", now).
		Set("updated_at = ?", now).
		Where("?TableAlias.id = ?", notificationID).
		Where("?TableAlias.account_id = ?", accountID).
		Where("?TableAlias.is_read = ?", false).
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *notifications) CountUnread(ctx context.Context, accountID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*Notification)(nil)).
		Where("?TableAlias.account_id = ?", accountID).
		Where("?TableAlias.is_read = ?", false).
		Count(ctx)
}
