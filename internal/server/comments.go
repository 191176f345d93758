package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yayiti-52/tasksync-hub/internal/models"
	"github.com/yayiti-52/tasksync-hub/internal/policy"
)

type commentRequest struct {
	Content string `json:"content"`
}

// handleListComments returns a task's thread oldest first.
func (s *Server) handleListComments(c *gin.Context) {
	taskID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	comments, err := s.store.ListComments(c.Request.Context(), taskID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// handleAddComment appends to a task's discussion thread. Comments are
// immutable once written.
func (s *Server) handleAddComment(c *gin.Context) {
	taskID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	actor := actorFrom(c)
	if !policy.Can(actor, policy.ActionAddComment, policy.Resource{}) {
		s.forbidden(c, policy.ActionAddComment)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}
	if req.Content == "" {
		s.respondError(c, fmt.Errorf("%w: comment content is required", models.ErrValidation))
		return
	}

	// The thread belongs to a real task; a miss here is a 404 rather than
	// an orphaned comment row.
	if _, err := s.store.GetTask(c.Request.Context(), taskID); err != nil {
		s.respondError(c, err)
		return
	}

	comment, err := s.store.AddComment(c.Request.Context(), taskID, actor.ProfileID, req.Content)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
