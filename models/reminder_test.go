package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminder_IsDue(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		reminder Reminder
		want     bool
	}{
		{"past", Reminder{RemindAt: now.Add(-time.Minute)}, true},
		{"exactly now", Reminder{RemindAt: now}, true},
		{"future", Reminder{RemindAt: now.Add(time.Second)}, false},
		{"already reminded", Reminder{RemindAt: now.Add(-time.Hour), IsReminded: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reminder.IsDue(now))
		})
	}
}
