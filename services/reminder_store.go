package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reminder-backend/models"
)

var ErrReminderNotFound = errors.New("reminder not found")

// ReminderStore persists reminders and their dispatch logs.
type ReminderStore struct {
	db *gorm.DB
}

func NewReminderStore(db *gorm.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

func (s *ReminderStore) Create(ctx context.Context, reminder *models.Reminder) error {
	if err := s.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (s *ReminderStore) List(ctx context.Context) ([]models.Reminder, error) {
	reminders := []models.Reminder{}
	if err := s.db.WithContext(ctx).Order("created_at").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// ListUnsent returns every reminder that has not been dispatched yet, due or not.
func (s *ReminderStore) ListUnsent(ctx context.Context) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := s.db.WithContext(ctx).
		Where("is_reminded = ?", false).
		Order("remind_at").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to list unsent reminders: %w", err)
	}
	return reminders, nil
}

func (s *ReminderStore) Get(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := s.db.WithContext(ctx).First(&reminder, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to get reminder %s: %w", id, err)
	}
	return &reminder, nil
}

// MarkReminded flips is_reminded for a reminder that is still unsent.
// It reports false when the row was already marked or no longer exists.
func (s *ReminderStore) MarkReminded(ctx context.Context, id uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ? AND is_reminded = ?", id, false).
		Update("is_reminded", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark reminder %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a reminder. Deleting an unknown id is not an error.
func (s *ReminderStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(&models.Reminder{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete reminder %s: %w", id, err)
	}
	return nil
}

func (s *ReminderStore) CreateLog(ctx context.Context, entry *models.ReminderLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create reminder log: %w", err)
	}
	return nil
}

func (s *ReminderStore) ListLogs(ctx context.Context) ([]models.ReminderLog, error) {
	logs := []models.ReminderLog{}
	if err := s.db.WithContext(ctx).Order("sent_at desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list reminder logs: %w", err)
	}
	return logs, nil
}

func (s *ReminderStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
