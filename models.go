package workhive

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the marketplace account model
type Account struct {
	bun.BaseModel  `bun:"table:accounts,alias:acc"`
	ID             uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           AccountRole `bun:"account_role,notnull" json:"account_role,omitempty"`
	FirstName      string      `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string      `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email          string      `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone          string      `bun:"phone_number" json:"phone_number,omitempty"`
	Headline       string      `bun:"headline" json:"headline,omitempty"`
	Company        string      `bun:"company" json:"company,omitempty"`
	PasswordHash   string      `bun:"password_hash" json:"-"`
	LoginAttempts  int         `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time  `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time  `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time  `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Sanitized returns a copy safe to hand back to clients. The credential
// hash never crosses the API boundary even if a serializer ignores tags.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	clean := *a
	clean.PasswordHash = ""
	return &clean
}

// NotificationKind tags the event that produced a notification
type NotificationKind = string

const (
	// NotificationNewMessage a conversation received a message
	NotificationNewMessage NotificationKind = "new_message"
	// NotificationApplication an application changed state
	NotificationApplication NotificationKind = "application_update"
	// NotificationJobMatch a listing matched a candidate profile
	NotificationJobMatch NotificationKind = "job_match"
	// NotificationSystem platform announcements
	NotificationSystem NotificationKind = "system"
)

// Notification is a per-account inbox entry. The owner never changes
// after creation; mark-as-read only ever transitions unread to read.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:ntf"`
	ID            uuid.UUID        `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID        `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Account       *Account         `bun:"rel:belongs-to,join:account_id=id" json:"account,omitempty"`
	Kind          NotificationKind `bun:"kind,notnull" json:"kind,omitempty"`
	Title         string           `bun:"title,notnull" json:"title,omitempty"`
	Body          string           `bun:"body" json:"body,omitempty"`
	Read          bool             `bun:"is_read" json:"is_read"`
	ReadAt        *time.Time       `bun:"read_at,nullzero" json:"read_at,omitempty"`
	CreatedAt     *time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
