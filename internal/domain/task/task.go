package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trackle/backend/internal/domain/shared"
	"github.com/trackle/backend/internal/domain/shared/valueobject"
)

// TaskStatus represents where a task is in its lifecycle
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "pending"
	TaskStatusInProgress  TaskStatus = "in-progress"
	TaskStatusUnderReview TaskStatus = "under-review"
	TaskStatusCompleted   TaskStatus = "completed"
	TaskStatusInvoiceable TaskStatus = "invoiceable"
	TaskStatusInvoiced    TaskStatus = "invoiced"
	TaskStatusCancelled   TaskStatus = "cancelled"

	// TaskStatusReview is a legacy value still present on old rows.
	// It is readable but no transitions lead into or out of it.
	TaskStatusReview TaskStatus = "review"
)

// IsValid checks if the status is a known TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusUnderReview,
		TaskStatusCompleted, TaskStatusInvoiceable, TaskStatusInvoiced,
		TaskStatusCancelled, TaskStatusReview:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status accepts no further transitions
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusInvoiced || s == TaskStatusCancelled
}

// CanTransitionTo checks if this status can move to the target status.
// The lifecycle advances one step at a time; cancellation is allowed
// from any non-terminal status except the legacy review value.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	if target == TaskStatusCancelled {
		return !s.IsTerminal() && s != TaskStatusReview
	}
	switch s {
	case TaskStatusPending:
		return target == TaskStatusInProgress
	case TaskStatusInProgress:
		return target == TaskStatusUnderReview
	case TaskStatusUnderReview:
		return target == TaskStatusCompleted
	case TaskStatusCompleted:
		return target == TaskStatusInvoiceable
	case TaskStatusInvoiceable:
		return target == TaskStatusInvoiced
	default:
		return false
	}
}

// Task represents a unit of billable work on a project
type Task struct {
	shared.BaseAggregateRoot
	Title       string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid;index"`
	VerifiedBy  *uuid.UUID `gorm:"type:uuid"`

	Amount                 decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
	IncentivePercentage    decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	VerificationPercentage decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	IncentiveAwarded       bool            `gorm:"not null;default:false"`

	DueDate     *time.Time
	CompletedAt *time.Time
	Deleted     bool `gorm:"not null;default:false;index"`

	Team []TaskMember `gorm:"foreignKey:TaskID"`
}

// TaskMember records a user working on a task besides the assignee
type TaskMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_member,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_member,priority:2"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (TaskMember) TableName() string {
	return "task_members"
}

// NewTaskMember adds a user to a task's team
func NewTaskMember(taskID, userID uuid.UUID) *TaskMember {
	return &TaskMember{ID: uuid.New(), TaskID: taskID, UserID: userID, CreatedAt: time.Now()}
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a new task in pending status
func NewTask(title, description string, createdBy uuid.UUID) (*Task, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 255 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 255 characters")
	}
	return &Task{
		BaseAggregateRoot:      shared.NewBaseAggregateRootWithCreator(createdBy),
		Title:                  title,
		Description:            description,
		Status:                 TaskStatusPending,
		Amount:                 decimal.Zero,
		IncentivePercentage:    decimal.Zero,
		VerificationPercentage: decimal.Zero,
	}, nil
}

// SetBilling sets the task amount and incentive percentages
func (t *Task) SetBilling(amount, incentivePct, verificationPct decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	for _, pct := range []decimal.Decimal{incentivePct, verificationPct} {
		if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError("INVALID_PERCENTAGE", "Percentage must be between 0 and 100")
		}
	}
	t.Amount = amount
	t.IncentivePercentage = incentivePct
	t.VerificationPercentage = verificationPct
	t.UpdatedAt = time.Now()
	return nil
}

// Assign sets the assignee
func (t *Task) Assign(userID uuid.UUID) {
	t.AssignedTo = &userID
	t.UpdatedAt = time.Now()
}

// ChangeStatus moves the task to the target status if the transition is
// legal. Completing the task records the completion time, and records
// the acting user as verifier when they are not the assignee.
func (t *Task) ChangeStatus(target TaskStatus, actor uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown task status")
	}
	if !t.Status.CanTransitionTo(target) {
		return shared.ErrInvalidTransition
	}
	t.Status = target
	if target == TaskStatusCompleted {
		now := time.Now()
		t.CompletedAt = &now
		if t.AssignedTo == nil || *t.AssignedTo != actor {
			t.VerifiedBy = &actor
		}
	}
	t.UpdatedAt = time.Now()
	return nil
}

// MarkDeleted soft-deletes the task
func (t *Task) MarkDeleted() {
	t.Deleted = true
	t.UpdatedAt = time.Now()
}

// TaskIncentive returns the assignee's incentive for this task
func (t *Task) TaskIncentive() valueobject.Money {
	return valueobject.NewMoneyUSD(t.Amount).CalculatePercentage(t.IncentivePercentage).RoundBank(2)
}

// VerificationIncentive returns the verifier's incentive for this task
func (t *Task) VerificationIncentive() valueobject.Money {
	return valueobject.NewMoneyUSD(t.Amount).CalculatePercentage(t.VerificationPercentage).RoundBank(2)
}
