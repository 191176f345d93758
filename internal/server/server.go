package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"golang.org/x/time/rate"

	"github.com/yayiti-52/tasksync-hub/internal/auth"
	"github.com/yayiti-52/tasksync-hub/internal/cache"
	"github.com/yayiti-52/tasksync-hub/internal/models"
	"github.com/yayiti-52/tasksync-hub/internal/policy"
	"github.com/yayiti-52/tasksync-hub/internal/storage/sqlite"
)

const (
	actorKey   = "actor"
	profileKey = "profile"

	viewCachePrefix = "views:"
	viewCacheTTL    = 30 * time.Second
)

// Server provides the HTTP handlers for the task board backend.
type Server struct {
	engine    *gin.Engine
	store     *sqlite.Store
	tokens    *auth.Manager
	views     cache.Cache
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, tokens *auth.Manager, views cache.Cache, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if views == nil {
		views = cache.NewMemoryCache()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(rateLimiter(rate.Limit(50), 100))

	srv := &Server{
		engine:    router,
		store:     store,
		tokens:    tokens,
		views:     views,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", s.handleSignUp)
			authGroup.POST("/signin", s.handleSignIn)
			authGroup.POST("/signout", s.requireAuth, s.handleSignOut)
		}

		private := api.Group("")
		private.Use(s.requireAuth)
		{
			private.GET("/me", s.handleMe)
			private.PUT("/me/expertise", s.handleUpdateExpertise)
			private.GET("/profiles", s.handleListProfiles)

			private.GET("/board", s.handleBoard)
			private.GET("/history", s.handleHistory)
			private.GET("/team/stats", s.handleTeamStats)
			private.GET("/team/members", s.handleMemberRoster)
			private.GET("/team/leaders", s.handleLeaderRoster)

			private.GET("/tasks", s.handleListTasks)
			private.POST("/tasks", s.handleCreateTask)
			private.PUT("/tasks/:id/status", s.handleUpdateTaskStatus)
			private.GET("/tasks/:id/comments", s.handleListComments)
			private.POST("/tasks/:id/comments", s.handleAddComment)
			private.GET("/tasks/:id/documentation", s.handleGetDocumentation)
			private.PUT("/tasks/:id/documentation", s.handleSaveDocumentation)
			private.POST("/tasks/:id/reminders", s.handleSendReminder)

			private.GET("/reminders", s.handleListReminders)
			private.PUT("/reminders/:id/read", s.handleMarkReminderRead)

			private.POST("/queries", s.handleCreateQuery)
			private.GET("/queries/received", s.handleQueriesReceived)
			private.GET("/queries/sent", s.handleQueriesSent)
			private.GET("/queries/pending-count", s.handlePendingCount)
			private.PUT("/queries/:id/respond", s.handleRespondToQuery)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireAuth resolves the bearer token into an actor for downstream
// handlers. A request without a resolvable session never reaches a store.
func (s *Server) requireAuth(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrNotAuthenticated.Error()})
		return
	}

	accountID, err := s.tokens.ParseToken(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	profile, err := s.store.GetProfileByAccount(c.Request.Context(), accountID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrNotAuthenticated.Error()})
		return
	}
	role, err := s.store.RoleOfAccount(c.Request.Context(), accountID)
	if err != nil {
		s.respondError(c, err)
		c.Abort()
		return
	}

	c.Set(profileKey, profile)
	c.Set(actorKey, policy.Actor{ProfileID: profile.ID, AccountID: accountID, Role: role})
	c.Next()
}

func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func actorFrom(c *gin.Context) policy.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(policy.Actor); ok {
			return actor
		}
	}
	return policy.Actor{}
}

func profileFrom(c *gin.Context) models.Profile {
	if v, ok := c.Get(profileKey); ok {
		if profile, ok := v.(models.Profile); ok {
			return profile
		}
	}
	return models.Profile{}
}

// parseUUID converts a path parameter into a uuid with error handling.
func parseUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError logs the failure and maps sentinel errors onto HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) forbidden(c *gin.Context, action policy.Action) {
	c.JSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error(), "action": string(action)})
}

// invalidateViews drops every cached derived view after a store mutation,
// so the next read recomputes from the latest rows.
func (s *Server) invalidateViews(c *gin.Context) {
	s.views.Invalidate(c.Request.Context(), viewCachePrefix)
}

// rateLimiter applies a per-client-IP token bucket to the whole API.
func rateLimiter(limit rate.Limit, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		visitors = make(map[string]*rate.Limiter)
	)

	getVisitor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, exists := visitors[ip]
		if !exists {
			limiter = rate.NewLimiter(limit, burst)
			visitors[ip] = limiter
		}
		return limiter
	}

	return func(c *gin.Context) {
		if !getVisitor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
