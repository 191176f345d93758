// Package views derives the board's read models from store snapshots.
// Every function here is pure: it holds no state of its own and is simply
// recomputed whenever the underlying stores change.
package views

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

// Board partitions tasks into the four fixed columns. Every column is
// present even when empty, and each keeps the order the store returned.
func Board(tasks []models.Task) map[models.TaskStatus][]models.Task {
	columns := make(map[models.TaskStatus][]models.Task, len(models.BoardColumns))
	for _, status := range models.BoardColumns {
		columns[status] = []models.Task{}
	}
	for _, t := range tasks {
		if _, ok := columns[t.Status]; ok {
			columns[t.Status] = append(columns[t.Status], t)
		}
	}
	return columns
}

// ActiveTasks filters out completed work.
func ActiveTasks(tasks []models.Task) []models.Task {
	active := []models.Task{}
	for _, t := range tasks {
		if t.Status != models.StatusDone {
			active = append(active, t)
		}
	}
	return active
}

// CompletedEntry is one row of the completed history: a done task with its
// assignee resolved to a display name.
type CompletedEntry struct {
	Task         models.Task `json:"task"`
	AssigneeName string      `json:"assignee_name"`
	CompletedAt  time.Time   `json:"completed_at"`
}

// CompletedHistory lists done tasks with assignee names resolved from the
// given profile snapshot. Unassigned tasks show "Unassigned"; an assignee
// whose profile no longer resolves shows "Unknown". The completion date is
// the completed_at stamp, falling back to updated_at for rows completed
// before that column existed.
func CompletedHistory(tasks []models.Task, profiles map[uuid.UUID]models.Profile) []CompletedEntry {
	history := []CompletedEntry{}
	for _, t := range tasks {
		if t.Status != models.StatusDone {
			continue
		}
		entry := CompletedEntry{Task: t, AssigneeName: "Unassigned", CompletedAt: t.UpdatedAt}
		if t.CompletedAt != nil {
			entry.CompletedAt = *t.CompletedAt
		}
		if t.AssigneeID != nil {
			if p, ok := profiles[*t.AssigneeID]; ok {
				entry.AssigneeName = p.DisplayName
			} else {
				entry.AssigneeName = "Unknown"
			}
		}
		history = append(history, entry)
	}
	return history
}

// ActiveCountByAssignee counts not-yet-done tasks per assignee. Unassigned
// tasks are excluded.
func ActiveCountByAssignee(tasks []models.Task) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, t := range tasks {
		if t.Status == models.StatusDone || t.AssigneeID == nil {
			continue
		}
		counts[*t.AssigneeID]++
	}
	return counts
}

// CompletedCountByAssignee counts done tasks per assignee.
func CompletedCountByAssignee(tasks []models.Task) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, t := range tasks {
		if t.Status != models.StatusDone || t.AssigneeID == nil {
			continue
		}
		counts[*t.AssigneeID]++
	}
	return counts
}

// MemberRoster keeps the profiles whose resolved role is member; it feeds
// assignee pickers, since leaders cannot be assigned tasks.
func MemberRoster(profiles []models.Profile, roles map[uuid.UUID]models.Role) []models.Profile {
	return filterByRole(profiles, roles, models.RoleMember)
}

// LeaderRoster keeps the profiles whose resolved role is leader; it feeds
// query recipient pickers.
func LeaderRoster(profiles []models.Profile, roles map[uuid.UUID]models.Role) []models.Profile {
	return filterByRole(profiles, roles, models.RoleLeader)
}

func filterByRole(profiles []models.Profile, roles map[uuid.UUID]models.Role, want models.Role) []models.Profile {
	out := []models.Profile{}
	for _, p := range profiles {
		if roles[p.ID] == want {
			out = append(out, p)
		}
	}
	return out
}

// MemberStats is one row of the team sidebar: a profile with its role and
// task counts.
type MemberStats struct {
	Profile        models.Profile `json:"profile"`
	Role           models.Role    `json:"role"`
	ActiveCount    int            `json:"active_count"`
	CompletedCount int            `json:"completed_count"`
}

// TeamStats combines the roster with per-member counts for the sidebar.
func TeamStats(profiles []models.Profile, roles map[uuid.UUID]models.Role, tasks []models.Task) []MemberStats {
	active := ActiveCountByAssignee(tasks)
	completed := CompletedCountByAssignee(tasks)

	stats := []MemberStats{}
	for _, p := range profiles {
		stats = append(stats, MemberStats{
			Profile:        p,
			Role:           roles[p.ID],
			ActiveCount:    active[p.ID],
			CompletedCount: completed[p.ID],
		})
	}
	return stats
}
