// Package policy centralizes the authorization rules of the board so they
// are testable in one place instead of scattered across handlers.
package policy

import (
	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

// Action names a mutation an actor may attempt.
type Action string

const (
	ActionCreateTask   Action = "task.create"
	ActionUpdateStatus Action = "task.update-status"
	ActionAddComment   Action = "task.comment"
	ActionSaveDocs     Action = "task.save-documentation"
	ActionSendReminder Action = "reminder.send"
	ActionRaiseQuery   Action = "query.raise"
	ActionRespondQuery Action = "query.respond"
	ActionEditProfile  Action = "profile.edit"
)

// Actor is the resolved identity a request runs as.
type Actor struct {
	ProfileID uuid.UUID
	AccountID uuid.UUID
	Role      models.Role
}

// Authenticated reports whether the actor resolved to a real profile.
func (a Actor) Authenticated() bool {
	return a.ProfileID != uuid.Nil
}

// Resource carries the ownership facts a rule may need. Only the fields
// relevant to the action being checked have to be set.
type Resource struct {
	// TaskAssigneeID is the task's current assignee, nil when unassigned.
	TaskAssigneeID *uuid.UUID
	// QueryRecipientID is the leader a query was addressed to.
	QueryRecipientID uuid.UUID
	// ProfileOwnerID is the profile a profile-edit targets.
	ProfileOwnerID uuid.UUID
}

// Can decides whether actor may perform action on res.
//
// Leaders create tasks, send reminders and answer queries addressed to them.
// Members raise queries. Documentation is writable only by the task's
// current assignee, expertise only by the profile owner. Status updates and
// comments are open to any authenticated user; the stores themselves stay
// unconditional.
func Can(actor Actor, action Action, res Resource) bool {
	if !actor.Authenticated() {
		return false
	}

	switch action {
	case ActionCreateTask, ActionSendReminder:
		return actor.Role == models.RoleLeader
	case ActionRespondQuery:
		return actor.Role == models.RoleLeader && res.QueryRecipientID == actor.ProfileID
	case ActionRaiseQuery:
		return actor.Role == models.RoleMember
	case ActionSaveDocs:
		return res.TaskAssigneeID != nil && *res.TaskAssigneeID == actor.ProfileID
	case ActionEditProfile:
		return res.ProfileOwnerID == actor.ProfileID
	case ActionUpdateStatus, ActionAddComment:
		return true
	}
	return false
}
