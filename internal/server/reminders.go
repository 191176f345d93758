package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
	"github.com/yayiti-52/tasksync-hub/internal/policy"
)

type reminderRequest struct {
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message"`
}

// handleSendReminder lets a leader nudge a task's assignee. The recipient
// defaults to the task's current assignee when not named explicitly.
func (s *Server) handleSendReminder(c *gin.Context) {
	taskID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	actor := actorFrom(c)
	if !policy.Can(actor, policy.ActionSendReminder, policy.Resource{}) {
		s.forbidden(c, policy.ActionSendReminder)
		return
	}

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	task, err := s.store.GetTask(c.Request.Context(), taskID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var recipientID uuid.UUID
	switch {
	case req.RecipientID != "":
		recipientID, err = uuid.FromString(req.RecipientID)
		if err != nil {
			s.respondError(c, fmt.Errorf("%w: invalid recipient id", models.ErrValidation))
			return
		}
	case task.AssigneeID != nil:
		recipientID = *task.AssigneeID
	default:
		s.respondError(c, fmt.Errorf("%w: task has no assignee to remind", models.ErrValidation))
		return
	}

	reminder, err := s.store.SendReminder(c.Request.Context(), taskID, actor.ProfileID, recipientID, req.Message)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reminder": reminder})
}

// handleListReminders returns the caller's inbox, newest first, with
// sender names and task titles joined in.
func (s *Server) handleListReminders(c *gin.Context) {
	actor := actorFrom(c)
	reminders, err := s.store.ListRemindersFor(c.Request.Context(), actor.ProfileID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	unread := 0
	for _, r := range reminders {
		if !r.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "unread_count": unread})
}

// handleMarkReminderRead flips a reminder to read. Re-marking is a no-op.
func (s *Server) handleMarkReminderRead(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	reminder, err := s.store.MarkReminderRead(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminder": reminder})
}
