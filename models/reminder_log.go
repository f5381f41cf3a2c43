// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LogStatusSent   = "sent"
	LogStatusFailed = "failed"
)

type ReminderLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReminderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"reminderId"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"`  // sent, failed
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms, log
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	MessageSID   string    `gorm:"type:varchar(64)" json:"messageSid,omitempty"`
	SentAt       time.Time `gorm:"index" json:"sentAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
