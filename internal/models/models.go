package models

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

// Role determines what a team member may do on the board.
type Role string

const (
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

// TaskStatus is one of the four board columns.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// ValidTaskStatuses enumerates the statuses supported by the board columns.
var ValidTaskStatuses = map[TaskStatus]struct{}{
	StatusTodo:       {},
	StatusInProgress: {},
	StatusReview:     {},
	StatusDone:       {},
}

// BoardColumns lists the statuses in board order.
var BoardColumns = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// TaskPriority ranks how urgent a task is.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// ValidPriorities enumerates the accepted task priorities.
var ValidPriorities = map[TaskPriority]struct{}{
	PriorityHigh:   {},
	PriorityMedium: {},
	PriorityLow:    {},
}

// QueryStatus tracks whether a leader has answered a query yet.
type QueryStatus string

const (
	QueryPending   QueryStatus = "pending"
	QueryResponded QueryStatus = "responded"
)

// Sentinel errors shared across the storage and HTTP layers. Store methods
// wrap these so callers can classify failures with errors.Is.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
)

// Account is the credential record behind a profile.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public identity of a team member.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	AccountID      uuid.UUID `json:"account_id"`
	DisplayName    string    `json:"display_name"`
	AvatarInitials string    `json:"avatar_initials"`
	Expertise      []string  `json:"expertise"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Task represents a single card on the board.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	AssigneeID  *uuid.UUID   `json:"assignee_id"`
	CreatedByID uuid.UUID    `json:"created_by_id"`
	Deadline    time.Time    `json:"deadline"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	// CompletedAt is set once, on the first transition into done, and is
	// not cleared when a task is reopened.
	CompletedAt *time.Time `json:"completed_at"`
}

// Comment is one immutable entry in a task's discussion thread.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Documentation is the free-text progress note attached to a task.
// At most one exists per task; it is created lazily on first save.
type Documentation struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    uuid.UUID  `json:"task_id"`
	Content   string     `json:"content"`
	UpdatedBy *uuid.UUID `json:"updated_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Reminder is a one-way nudge from a leader to an assignee about a task.
// SenderName and TaskTitle are joined in at read time, never stored.
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	SentBy    uuid.UUID `json:"sent_by"`
	SentTo    uuid.UUID `json:"sent_to"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	SenderName string `json:"sender_name,omitempty"`
	TaskTitle  string `json:"task_title,omitempty"`
}

// Query is a member-to-leader question, optionally tied to a task.
type Query struct {
	ID            uuid.UUID   `json:"id"`
	FromProfileID uuid.UUID   `json:"from_profile_id"`
	ToProfileID   uuid.UUID   `json:"to_profile_id"`
	TaskID        *uuid.UUID  `json:"task_id"`
	Subject       string      `json:"subject"`
	Message       string      `json:"message"`
	Response      *string     `json:"response"`
	Status        QueryStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	RespondedAt   *time.Time  `json:"responded_at"`
}
