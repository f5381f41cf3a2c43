package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder is a message scheduled for delivery at RemindAt.
// IsReminded flips to true once, when the dispatcher picks it up.
type Reminder struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"_id"`
	Message    string    `gorm:"column:reminder_msg;type:text;not null" json:"reminderMsg"`
	RemindAt   time.Time `gorm:"not null;index" json:"remindAt"`
	IsReminded bool      `gorm:"not null;default:false;index" json:"isReminded"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// IsDue reports whether the reminder should be sent at now.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.IsReminded && !r.RemindAt.After(now)
}
