package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// SubmissionStatus values are owned by the admin surface; intake only ever
// writes StatusNew.
const StatusNew = "new"

// ContactSubmission is immutable once created. Intake never updates or
// deletes rows.
type ContactSubmission struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"size:100;not null" json:"name"`
	Email       string            `gorm:"size:254;not null;index" json:"email"`
	Company     string            `gorm:"size:100" json:"company,omitempty"`
	ServiceType string            `gorm:"column:service_type" json:"service_type,omitempty"`
	BudgetRange string            `gorm:"column:budget_range" json:"budget_range,omitempty"`
	Message     string            `gorm:"not null" json:"message"`
	TimeFrame   string            `gorm:"column:time_frame" json:"time_frame,omitempty"`
	Status      string            `gorm:"not null;default:new" json:"status"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ContactSubmission) TableName() string {
	return "contact_messages"
}
