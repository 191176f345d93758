package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
	"github.com/yayiti-52/tasksync-hub/internal/policy"
)

type createQueryRequest struct {
	RecipientID string `json:"recipient_id"`
	TaskID      string `json:"task_id"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// handleCreateQuery files a member's question to a leader.
func (s *Server) handleCreateQuery(c *gin.Context) {
	actor := actorFrom(c)
	if !policy.Can(actor, policy.ActionRaiseQuery, policy.Resource{}) {
		s.forbidden(c, policy.ActionRaiseQuery)
		return
	}

	var req createQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	recipientID, err := uuid.FromString(req.RecipientID)
	if err != nil {
		s.respondError(c, fmt.Errorf("%w: invalid recipient id", models.ErrValidation))
		return
	}
	// Queries must be addressed to a leader.
	role, err := s.store.RoleOfProfile(c.Request.Context(), recipientID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if role != models.RoleLeader {
		s.respondError(c, fmt.Errorf("%w: queries can only be sent to a leader", models.ErrValidation))
		return
	}

	var taskID *uuid.UUID
	if req.TaskID != "" {
		id, err := uuid.FromString(req.TaskID)
		if err != nil {
			s.respondError(c, fmt.Errorf("%w: invalid task id", models.ErrValidation))
			return
		}
		taskID = &id
	}

	query, err := s.store.CreateQuery(c.Request.Context(), actor.ProfileID, recipientID, taskID, req.Subject, req.Message)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"query": query})
}

type respondRequest struct {
	Response string `json:"response"`
}

// handleRespondToQuery records a leader's answer. Responding is a one-way
// transition: a query that already carries a response is rejected with a
// conflict instead of being silently overwritten.
func (s *Server) handleRespondToQuery(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	query, err := s.store.GetQuery(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	actor := actorFrom(c)
	if !policy.Can(actor, policy.ActionRespondQuery, policy.Resource{QueryRecipientID: query.ToProfileID}) {
		s.forbidden(c, policy.ActionRespondQuery)
		return
	}
	if query.Status == models.QueryResponded {
		s.respondError(c, fmt.Errorf("%w: query already responded", models.ErrConflict))
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	updated, err := s.store.RespondToQuery(c.Request.Context(), id, req.Response)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": updated})
}

// handleQueriesReceived returns queries addressed to the caller.
func (s *Server) handleQueriesReceived(c *gin.Context) {
	actor := actorFrom(c)
	queries, err := s.store.ListQueriesReceived(c.Request.Context(), actor.ProfileID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": queries})
}

// handleQueriesSent returns queries the caller raised.
func (s *Server) handleQueriesSent(c *gin.Context) {
	actor := actorFrom(c)
	queries, err := s.store.ListQueriesSent(c.Request.Context(), actor.ProfileID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": queries})
}

// handlePendingCount returns how many of the caller's received queries are
// still unanswered.
func (s *Server) handlePendingCount(c *gin.Context) {
	actor := actorFrom(c)
	count, err := s.store.PendingQueryCount(c.Request.Context(), actor.ProfileID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": count})
}
