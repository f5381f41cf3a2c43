// controllers/reminder.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"reminder-backend/models"
	"reminder-backend/services"
	"reminder-backend/utils"
)

const WelcomeMessage = "Welcome to the Reminder App!"

type reminderStore interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	List(ctx context.Context) ([]models.Reminder, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Reminder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListLogs(ctx context.Context) ([]models.ReminderLog, error)
	Ping(ctx context.Context) error
}

// AddReminderInput defines the expected JSON or form structure for creating a reminder
type AddReminderInput struct {
	ReminderMsg string        `json:"reminderMsg" form:"reminderMsg" binding:"required"`
	RemindAt    RemindAtInput `json:"remindAt" form:"remindAt" binding:"required"`
}

// DeleteReminderInput carries the id of the reminder to delete
type DeleteReminderInput struct {
	ID string `json:"id" form:"id"`
}

// RemindAtInput accepts a JSON string or a JSON number of epoch milliseconds.
type RemindAtInput string

func (r *RemindAtInput) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*r = RemindAtInput(text)
		return nil
	}

	var millis json.Number
	if err := json.Unmarshal(data, &millis); err != nil {
		return err
	}
	*r = RemindAtInput(millis.String())
	return nil
}

type ReminderController struct {
	log      *zap.Logger
	store    reminderStore
	location *time.Location
}

// NewReminderController builds the reminder handlers. Zone-less remindAt values
// are interpreted in loc.
func NewReminderController(log *zap.Logger, store reminderStore, loc *time.Location) *ReminderController {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderController{log: log, store: store, location: loc}
}

func (rc *ReminderController) Welcome(c *gin.Context) {
	c.String(http.StatusOK, WelcomeMessage)
}

// GetAllReminders returns every reminder, sent or not
func (rc *ReminderController) GetAllReminders(c *gin.Context) {
	rc.respondWithReminders(c, http.StatusOK, "Failed to fetch reminders")
}

// AddReminder creates a reminder and returns the full list
func (rc *ReminderController) AddReminder(c *gin.Context) {
	var input AddReminderInput
	if err := c.ShouldBind(&input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) || errors.Is(err, io.EOF) {
			utils.RespondWithError(c, http.StatusBadRequest, "Missing required fields")
			return
		}
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	remindAt, err := utils.ParseRemindAt(string(input.RemindAt), rc.location)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid remindAt")
		return
	}

	reminder := models.Reminder{
		Message:  input.ReminderMsg,
		RemindAt: remindAt,
	}

	if err := rc.store.Create(c.Request.Context(), &reminder); err != nil {
		rc.log.Error("Failed to add reminder", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add reminder")
		return
	}

	rc.respondWithReminders(c, http.StatusCreated, "Failed to add reminder")
}

// DeleteReminder removes a reminder by id. Unknown or malformed ids are ignored.
func (rc *ReminderController) DeleteReminder(c *gin.Context) {
	var input DeleteReminderInput
	if err := c.ShouldBind(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if id, err := uuid.Parse(input.ID); err == nil {
		if err := rc.store.Delete(c.Request.Context(), id); err != nil {
			rc.log.Error("Failed to delete reminder", zap.String("id", input.ID), zap.Error(err))
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete reminder")
			return
		}
	}

	rc.respondWithReminders(c, http.StatusOK, "Failed to delete reminder")
}

// GetReminder retrieves a single reminder by id
func (rc *ReminderController) GetReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reminder ID format")
		return
	}

	reminder, err := rc.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrReminderNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Reminder not found")
		} else {
			rc.log.Error("Failed to fetch reminder", zap.String("id", id.String()), zap.Error(err))
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch reminder")
		}
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// GetReminderLogs lists dispatch attempts, newest first
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	logs, err := rc.store.ListLogs(c.Request.Context())
	if err != nil {
		rc.log.Error("Failed to fetch reminder logs", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch reminder logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (rc *ReminderController) Health(c *gin.Context) {
	if err := rc.store.Ping(c.Request.Context()); err != nil {
		rc.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rc *ReminderController) respondWithReminders(c *gin.Context, status int, failure string) {
	reminders, err := rc.store.List(c.Request.Context())
	if err != nil {
		rc.log.Error(failure, zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, failure)
		return
	}

	c.JSON(status, reminders)
}
