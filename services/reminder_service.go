// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reminder-backend/models"
)

// DispatchMode controls the order of the sent-flag update and the provider call.
type DispatchMode string

const (
	// ModeMarkThenSend flags the reminder before sending. A failed send is never
	// retried, so the notification can be lost.
	ModeMarkThenSend DispatchMode = "mark-then-send"
	// ModeSendThenMark flags the reminder only after the provider accepted it.
	// A crash between the two steps sends the reminder again on the next run.
	ModeSendThenMark DispatchMode = "send-then-mark"
)

var ErrSchedulerRunning = errors.New("reminder scheduler already running")

func ParseDispatchMode(s string) (DispatchMode, error) {
	switch mode := DispatchMode(s); mode {
	case ModeMarkThenSend, ModeSendThenMark:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown dispatch mode %q", s)
	}
}

type DispatchStore interface {
	ListUnsent(ctx context.Context) ([]models.Reminder, error)
	MarkReminded(ctx context.Context, id uuid.UUID) (bool, error)
	CreateLog(ctx context.Context, entry *models.ReminderLog) error
}

type DispatchConfig struct {
	Schedule   string
	Mode       DispatchMode
	Workers    int
	RunOnStart bool
	// To is the fixed destination every reminder is sent to.
	To string
}

// DispatchResult summarizes a single pass over the unsent reminders.
type DispatchResult struct {
	Scanned int
	Due     int
	Sent    int
	Failed  int
}

type Option func(*ReminderService)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *ReminderService) {
		s.now = now
	}
}

// ReminderService periodically sends every reminder whose time has come.
type ReminderService struct {
	log    *zap.Logger
	store  DispatchStore
	sender Sender
	cfg    DispatchConfig
	now    func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReminderService(log *zap.Logger, store DispatchStore, sender Sender, cfg DispatchConfig, opts ...Option) *ReminderService {
	if cfg.Mode == "" {
		cfg.Mode = ModeMarkThenSend
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	s := &ReminderService{
		log:    log,
		store:  store,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartScheduler registers DispatchDue on the configured cron schedule and
// starts the scheduler in its own goroutine. With RunOnStart the first pass
// runs in the background, sharing the overlap guard of the scheduled job.
func (s *ReminderService) StartScheduler() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return ErrSchedulerRunning
	}

	ctx, cancel := context.WithCancel(context.Background())

	logger := cronLogger{l: s.log.Sugar()}
	c := cron.New(cron.WithLogger(logger))
	job := cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).
		Then(cron.FuncJob(func() { s.DispatchDue(ctx) }))

	if _, err := c.AddJob(s.cfg.Schedule, job); err != nil {
		cancel()
		return fmt.Errorf("invalid dispatch schedule %q: %w", s.cfg.Schedule, err)
	}

	c.Start()
	s.cron, s.cancel = c, cancel

	if s.cfg.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			job.Run()
		}()
	}

	s.log.Info("Reminder scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.String("mode", string(s.cfg.Mode)),
		zap.Int("workers", s.cfg.Workers),
		zap.Bool("run_on_start", s.cfg.RunOnStart),
	)
	return nil
}

// Stop halts the scheduler and waits for running passes to finish or for ctx
// to expire, whichever comes first.
func (s *ReminderService) Stop(ctx context.Context) error {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}
	defer cancel()

	done := make(chan struct{})
	go func() {
		<-c.Stop().Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("Reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("reminder scheduler did not stop in time: %w", ctx.Err())
	}
}

// DispatchDue sends every unsent reminder whose RemindAt is not after the
// current time. A failure on one reminder does not affect the others.
func (s *ReminderService) DispatchDue(ctx context.Context) DispatchResult {
	var result DispatchResult

	reminders, err := s.store.ListUnsent(ctx)
	if err != nil {
		s.log.Error("Failed to fetch unsent reminders", zap.Error(err))
		return result
	}
	result.Scanned = len(reminders)

	now := s.now()

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)

	for _, reminder := range reminders {
		if !reminder.IsDue(now) {
			continue
		}
		result.Due++

		g.Go(func() error {
			delivered, err := s.dispatch(ctx, reminder)
			switch {
			case err != nil:
				failed.Add(1)
				s.log.Error("Failed to dispatch reminder",
					zap.String("reminder_id", reminder.ID.String()),
					zap.Error(err),
				)
			case delivered:
				sent.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Sent = int(sent.Load())
	result.Failed = int(failed.Load())

	if result.Due > 0 {
		s.log.Info("Reminder dispatch completed",
			zap.Int("scanned", result.Scanned),
			zap.Int("due", result.Due),
			zap.Int("sent", result.Sent),
			zap.Int("failed", result.Failed),
		)
	}

	return result
}

func (s *ReminderService) dispatch(ctx context.Context, reminder models.Reminder) (bool, error) {
	body := renderBody(reminder)

	if s.cfg.Mode == ModeSendThenMark {
		sid, err := s.sender.Send(ctx, s.cfg.To, body)
		s.record(ctx, reminder, body, sid, err)
		if err != nil {
			return false, err
		}

		if _, err := s.store.MarkReminded(ctx, reminder.ID); err != nil {
			return true, fmt.Errorf("sent but not marked: %w", err)
		}
		return true, nil
	}

	marked, err := s.store.MarkReminded(ctx, reminder.ID)
	if err != nil {
		return false, err
	}
	if !marked {
		// Already handled by a concurrent pass or deleted.
		return false, nil
	}

	sid, err := s.sender.Send(ctx, s.cfg.To, body)
	s.record(ctx, reminder, body, sid, err)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ReminderService) record(ctx context.Context, reminder models.Reminder, body, sid string, sendErr error) {
	entry := &models.ReminderLog{
		ReminderID: reminder.ID,
		Message:    body,
		Status:     models.LogStatusSent,
		Channel:    s.sender.Channel(s.cfg.To),
		MessageSID: sid,
		SentAt:     s.now(),
	}
	if sendErr != nil {
		entry.Status = models.LogStatusFailed
		entry.ErrorMessage = sendErr.Error()
	} else {
		s.log.Info("Reminder sent",
			zap.String("reminder_id", reminder.ID.String()),
			zap.String("channel", entry.Channel),
			zap.String("sid", sid),
		)
	}

	if err := s.store.CreateLog(ctx, entry); err != nil {
		s.log.Error("Failed to log reminder",
			zap.String("reminder_id", reminder.ID.String()),
			zap.Error(err),
		)
	}
}

func renderBody(reminder models.Reminder) string {
	return "Reminder: " + reminder.Message
}

// cronLogger adapts zap to cron.Logger. Cron's per-tick info messages go to debug.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
