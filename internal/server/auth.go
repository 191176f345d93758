package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yayiti-52/tasksync-hub/internal/auth"
	"github.com/yayiti-52/tasksync-hub/internal/models"
	"github.com/yayiti-52/tasksync-hub/internal/policy"
)

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignUp provisions an account, its profile and its role, then signs
// the new user straight in. The first account to register founds the team
// and becomes leader.
func (s *Server) handleSignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}
	if !strings.Contains(req.Email, "@") {
		s.respondError(c, fmt.Errorf("%w: invalid email address", models.ErrValidation))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	account, profile, role, err := s.store.CreateAccount(c.Request.Context(), req.Email, hash, req.DisplayName)
	if err != nil {
		s.respondError(c, err)
		return
	}

	token, err := s.tokens.IssueToken(account.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidateViews(c)
	c.JSON(http.StatusCreated, gin.H{"token": token, "profile": profile, "role": role})
}

// handleSignIn checks credentials and issues a session token.
func (s *Server) handleSignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	account, err := s.store.GetAccountByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Do not reveal whether the account exists.
		if errors.Is(err, models.ErrNotFound) {
			s.respondError(c, fmt.Errorf("%w: invalid credentials", models.ErrNotAuthenticated))
			return
		}
		s.respondError(c, err)
		return
	}
	if err := auth.CheckPassword(account.PasswordHash, req.Password); err != nil {
		s.respondError(c, err)
		return
	}

	token, err := s.tokens.IssueToken(account.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	profile, err := s.store.GetProfileByAccount(c.Request.Context(), account.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	role, err := s.store.RoleOfAccount(c.Request.Context(), account.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile, "role": role})
}

// handleSignOut acknowledges the sign-out; sessions are stateless tokens,
// so the client drops its copy and the token simply ages out.
func (s *Server) handleSignOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// handleMe returns the caller's own profile and resolved role.
func (s *Server) handleMe(c *gin.Context) {
	actor := actorFrom(c)
	c.JSON(http.StatusOK, gin.H{"profile": profileFrom(c), "role": actor.Role})
}

type expertiseRequest struct {
	Expertise []string `json:"expertise"`
}

// handleUpdateExpertise replaces the caller's own expertise tags.
func (s *Server) handleUpdateExpertise(c *gin.Context) {
	actor := actorFrom(c)
	profile := profileFrom(c)

	var req expertiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %s", models.ErrValidation, err.Error()))
		return
	}

	if !policy.Can(actor, policy.ActionEditProfile, policy.Resource{ProfileOwnerID: profile.ID}) {
		s.forbidden(c, policy.ActionEditProfile)
		return
	}

	updated, err := s.store.UpdateExpertise(c.Request.Context(), profile.ID, req.Expertise)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidateViews(c)
	c.JSON(http.StatusOK, gin.H{"profile": updated})
}

// handleListProfiles returns every profile ordered by display name.
func (s *Server) handleListProfiles(c *gin.Context) {
	profiles, err := s.store.ListProfiles(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
