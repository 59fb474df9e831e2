package incentive

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trackle/backend/internal/domain/shared"
)

// IncentiveType distinguishes what the reward was earned for
type IncentiveType string

const (
	// IncentiveTypeTask rewards the assignee for completing the task.
	IncentiveTypeTask IncentiveType = "Task"
	// IncentiveTypeVerification rewards the user who verified it.
	IncentiveTypeVerification IncentiveType = "Verification"
)

// IsValid checks if the type is known
func (t IncentiveType) IsValid() bool {
	return t == IncentiveTypeTask || t == IncentiveTypeVerification
}

// String returns the string representation of IncentiveType
func (t IncentiveType) String() string {
	return string(t)
}

// Incentive is an append-only reward record. Rows are never updated or
// deleted; corrections happen upstream before awarding.
type Incentive struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TaskID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_incentive_task_type,priority:1"`
	ProjectID  *uuid.UUID      `gorm:"type:uuid;index"`
	Type       IncentiveType   `gorm:"type:varchar(20);not null;uniqueIndex:idx_incentive_task_type,priority:2"`
	Amount     decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	Percentage decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (Incentive) TableName() string {
	return "incentives"
}

// NewIncentive creates a reward record
func NewIncentive(userID, taskID uuid.UUID, incType IncentiveType, amount, percentage decimal.Decimal) (*Incentive, error) {
	if !incType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INCENTIVE_TYPE", "Unknown incentive type")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	return &Incentive{
		ID:         uuid.New(),
		UserID:     userID,
		TaskID:     taskID,
		Type:       incType,
		Amount:     amount,
		Percentage: percentage,
		CreatedAt:  time.Now(),
	}, nil
}

// IncentiveRepository defines persistence operations for incentives
type IncentiveRepository interface {
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]Incentive, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Incentive, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}
