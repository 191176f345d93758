package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
	"github.com/yayiti-52/tasksync-hub/internal/policy"
	"github.com/yayiti-52/tasksync-hub/internal/views"
)

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	AssigneeID  string   `json:"assignee_id"`
	Deadline    string   `json:"deadline"`
	Tags        []string `json:"tags"`
}

// handleListTasks returns every task, newest created first.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// handleCreateTask creates a card assigned to a member. Leader only; the
// created task always starts in the todo column.
func (s *Server) handleCreateTask(c *gin.Context) {
	actor := actorFrom(c)
	if !policy.Can(actor, policy.ActionCreateTask, policy.Resource{}) {
		s.forbidden(c, policy.ActionCreateTask)
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}
	if req.Title == "" {
		s.respondError(c, fmt.Errorf("%w: title is required", models.ErrValidation))
		return
	}
	if req.AssigneeID == "" {
		s.respondError(c, fmt.Errorf("%w: assignee is required", models.ErrValidation))
		return
	}
	assigneeID, err := uuid.FromString(req.AssigneeID)
	if err != nil {
		s.respondError(c, fmt.Errorf("%w: invalid assignee id", models.ErrValidation))
		return
	}
	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		// Date-only deadlines come from the picker as 2006-01-02.
		deadline, err = time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			s.respondError(c, fmt.Errorf("%w: deadline must be a date", models.ErrValidation))
			return
		}
	}

	task, err := s.store.CreateTask(c.Request.Context(), models.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.TaskPriority(req.Priority),
		AssigneeID:  &assigneeID,
		CreatedByID: actor.ProfileID,
		Deadline:    deadline,
		Tags:        req.Tags,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidateViews(c)
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

type statusRequest struct {
	Status string `json:"status"`
}

// handleUpdateTaskStatus moves a task to another column. Any authenticated
// user may do this; the store validates the target status.
func (s *Server) handleUpdateTaskStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	actor := actorFrom(c)
	if !policy.Can(actor, policy.ActionUpdateStatus, policy.Resource{}) {
		s.forbidden(c, policy.ActionUpdateStatus)
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	task, err := s.store.UpdateTaskStatus(c.Request.Context(), id, models.TaskStatus(req.Status))
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidateViews(c)
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleBoard serves the four-column view, cached until the next mutation.
func (s *Server) handleBoard(c *gin.Context) {
	s.serveView(c, viewCachePrefix+"board", func() (any, error) {
		tasks, err := s.store.ListTasks(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"columns": views.Board(tasks)}, nil
	})
}

// handleHistory serves the completed-task history with assignee names
// resolved.
func (s *Server) handleHistory(c *gin.Context) {
	s.serveView(c, viewCachePrefix+"history", func() (any, error) {
		tasks, err := s.store.ListTasks(c.Request.Context())
		if err != nil {
			return nil, err
		}
		profiles, err := s.profileIndex(c)
		if err != nil {
			return nil, err
		}
		return gin.H{"history": views.CompletedHistory(tasks, profiles)}, nil
	})
}

// profileIndex snapshots every profile keyed by id for name resolution.
func (s *Server) profileIndex(c *gin.Context) (map[uuid.UUID]models.Profile, error) {
	profiles, err := s.store.ListProfiles(c.Request.Context())
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]models.Profile, len(profiles))
	for _, p := range profiles {
		index[p.ID] = p
	}
	return index, nil
}

// serveView returns a cached rendering of a derived view, recomputing and
// caching it on miss.
func (s *Server) serveView(c *gin.Context, key string, compute func() (any, error)) {
	if payload, ok := s.views.Get(c.Request.Context(), key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	value, err := compute()
	if err != nil {
		s.respondError(c, err)
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.views.Set(c.Request.Context(), key, payload, viewCacheTTL)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
