package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reminder-backend/config"
	"reminder-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.ConnectDB(config.Database{
		Driver:       config.DriverSQLite,
		URL:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedReminder(t *testing.T, store *ReminderStore, msg string, at time.Time) models.Reminder {
	t.Helper()

	r := models.Reminder{Message: msg, RemindAt: at}
	require.NoError(t, store.Create(context.Background(), &r))
	return r
}

type sentMessage struct {
	To   string
	Body string
}

type fakeSender struct {
	mu      sync.Mutex
	calls   []sentMessage
	failing string
}

func (f *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, sentMessage{To: to, Body: body})
	if f.failing != "" && strings.Contains(body, f.failing) {
		return "", errors.New("provider unavailable")
	}
	return "SM" + uuid.NewString()[:8], nil
}

func (f *fakeSender) Channel(string) string {
	return ChannelWhatsApp
}

func (f *fakeSender) Calls() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]sentMessage(nil), f.calls...)
}

type failingStore struct {
	listErr error
	markErr error
}

func (s failingStore) ListUnsent(context.Context) ([]models.Reminder, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []models.Reminder{{ID: uuid.New(), Message: "due", RemindAt: time.Unix(0, 0)}}, nil
}

func (s failingStore) MarkReminded(context.Context, uuid.UUID) (bool, error) {
	return false, s.markErr
}

func (s failingStore) CreateLog(context.Context, *models.ReminderLog) error {
	return nil
}

// blockingSender holds every Send until release is closed.
type blockingSender struct {
	fakeSender
	started chan struct{}
	release chan struct{}
}

func (b *blockingSender) Send(ctx context.Context, to, body string) (string, error) {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-b.release
	return b.fakeSender.Send(ctx, to, body)
}
