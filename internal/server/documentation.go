package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yayiti-52/tasksync-hub/internal/models"
	"github.com/yayiti-52/tasksync-hub/internal/policy"
)

type documentationRequest struct {
	Content string `json:"content"`
}

// handleGetDocumentation returns the task's note. A note that was never
// saved comes back as null.
func (s *Server) handleGetDocumentation(c *gin.Context) {
	taskID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	doc, err := s.store.GetDocumentation(c.Request.Context(), taskID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documentation": doc})
}

// handleSaveDocumentation upserts the task's note. Only the current
// assignee may save; the policy check lives here, the store stays
// unconditional.
func (s *Server) handleSaveDocumentation(c *gin.Context) {
	taskID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.GetTask(c.Request.Context(), taskID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	actor := actorFrom(c)
	if !policy.Can(actor, policy.ActionSaveDocs, policy.Resource{TaskAssigneeID: task.AssigneeID}) {
		s.forbidden(c, policy.ActionSaveDocs)
		return
	}

	var req documentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	doc, err := s.store.SaveDocumentation(c.Request.Context(), taskID, actor.ProfileID, req.Content)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documentation": doc})
}
