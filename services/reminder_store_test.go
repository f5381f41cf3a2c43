package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminder-backend/models"
)

func TestReminderStore_CreateAndGet(t *testing.T) {
	store := NewReminderStore(newTestDB(t))
	ctx := context.Background()

	at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	r := seedReminder(t, store, "Buy milk", at)

	assert.NotEqual(t, uuid.Nil, r.ID)

	got, err := store.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Message)
	assert.True(t, at.Equal(got.RemindAt))
	assert.False(t, got.IsReminded)
}

func TestReminderStore_GetNotFound(t *testing.T) {
	store := NewReminderStore(newTestDB(t))

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReminderNotFound)
}

func TestReminderStore_ListEmptyIsNotNil(t *testing.T) {
	store := NewReminderStore(newTestDB(t))

	reminders, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reminders)
	assert.Empty(t, reminders)
}

func TestReminderStore_ListUnsent(t *testing.T) {
	store := NewReminderStore(newTestDB(t))
	ctx := context.Background()

	now := time.Now()
	sent := seedReminder(t, store, "sent", now.Add(-time.Hour))
	seedReminder(t, store, "past", now.Add(-time.Minute))
	seedReminder(t, store, "future", now.Add(time.Hour))

	ok, err := store.MarkReminded(ctx, sent.ID)
	require.NoError(t, err)
	require.True(t, ok)

	unsent, err := store.ListUnsent(ctx)
	require.NoError(t, err)
	require.Len(t, unsent, 2)
	assert.Equal(t, "past", unsent[0].Message)
	assert.Equal(t, "future", unsent[1].Message)
}

func TestReminderStore_MarkRemindedOnce(t *testing.T) {
	store := NewReminderStore(newTestDB(t))
	ctx := context.Background()

	r := seedReminder(t, store, "once", time.Now())

	ok, err := store.MarkReminded(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.MarkReminded(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.MarkReminded(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReminderStore_Delete(t *testing.T) {
	store := NewReminderStore(newTestDB(t))
	ctx := context.Background()

	keep := seedReminder(t, store, "keep", time.Now())
	drop := seedReminder(t, store, "drop", time.Now())

	require.NoError(t, store.Delete(ctx, drop.ID))
	require.NoError(t, store.Delete(ctx, uuid.New()))

	reminders, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, keep.ID, reminders[0].ID)
}

func TestReminderStore_Logs(t *testing.T) {
	store := NewReminderStore(newTestDB(t))
	ctx := context.Background()

	reminderID := uuid.New()
	older := &models.ReminderLog{ReminderID: reminderID, Status: models.LogStatusFailed, SentAt: time.Now().Add(-time.Minute)}
	newer := &models.ReminderLog{ReminderID: reminderID, Status: models.LogStatusSent, SentAt: time.Now()}
	require.NoError(t, store.CreateLog(ctx, older))
	require.NoError(t, store.CreateLog(ctx, newer))

	logs, err := store.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.LogStatusSent, logs[0].Status)
	assert.Equal(t, models.LogStatusFailed, logs[1].Status)
}

func TestReminderStore_Ping(t *testing.T) {
	store := NewReminderStore(newTestDB(t))

	assert.NoError(t, store.Ping(context.Background()))
}
