package server

import (
	"github.com/gin-gonic/gin"

	"github.com/yayiti-52/tasksync-hub/internal/views"
)

// handleTeamStats serves the sidebar: every profile with its role and
// active/completed task counts.
func (s *Server) handleTeamStats(c *gin.Context) {
	s.serveView(c, viewCachePrefix+"team-stats", func() (any, error) {
		profiles, err := s.store.ListProfiles(c.Request.Context())
		if err != nil {
			return nil, err
		}
		roles, err := s.store.RolesByProfile(c.Request.Context())
		if err != nil {
			return nil, err
		}
		tasks, err := s.store.ListTasks(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"members": views.TeamStats(profiles, roles, tasks)}, nil
	})
}

// handleMemberRoster serves the assignee picker: profiles whose resolved
// role is member. Leaders cannot be assigned tasks.
func (s *Server) handleMemberRoster(c *gin.Context) {
	s.serveView(c, viewCachePrefix+"team-members", func() (any, error) {
		profiles, err := s.store.ListProfiles(c.Request.Context())
		if err != nil {
			return nil, err
		}
		roles, err := s.store.RolesByProfile(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"profiles": views.MemberRoster(profiles, roles)}, nil
	})
}

// handleLeaderRoster serves the query recipient picker.
func (s *Server) handleLeaderRoster(c *gin.Context) {
	s.serveView(c, viewCachePrefix+"team-leaders", func() (any, error) {
		profiles, err := s.store.ListProfiles(c.Request.Context())
		if err != nil {
			return nil, err
		}
		roles, err := s.store.RolesByProfile(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"profiles": views.LeaderRoster(profiles, roles)}, nil
	})
}
