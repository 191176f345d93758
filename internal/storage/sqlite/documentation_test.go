package sqlite

import (
	"context"
	"testing"
)

func TestDocumentationRoundTrip(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "documented")
	ctx := context.Background()

	saved, err := store.SaveDocumentation(ctx, task.ID, member.ID, "progress so far")
	if err != nil {
		t.Fatalf("save documentation: %v", err)
	}
	if saved.Content != "progress so far" {
		t.Fatalf("content = %q", saved.Content)
	}

	got, err := store.GetDocumentation(ctx, task.ID)
	if err != nil {
		t.Fatalf("get documentation: %v", err)
	}
	if got == nil || got.Content != "progress so far" {
		t.Fatalf("round-trip content = %v", got)
	}
	if got.UpdatedBy == nil || *got.UpdatedBy != member.ID {
		t.Fatalf("updated_by = %v, want %s", got.UpdatedBy, member.ID)
	}
}

func TestDocumentationNeverSavedIsNil(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "blank")

	got, err := store.GetDocumentation(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get documentation: %v", err)
	}
	if got != nil {
		t.Fatalf("documentation = %v, want nil for never-saved note", got)
	}
}

func TestDocumentationSecondSaveOverwrites(t *testing.T) {
	store := testStore(t)
	leader, member := seedTeam(t, store)
	task := mustCreateTask(t, store, leader, member, "rewritten")
	ctx := context.Background()

	first, err := store.SaveDocumentation(ctx, task.ID, member.ID, "draft")
	if err != nil {
		t.Fatalf("first save: %v", err)
	}

	second, err := store.SaveDocumentation(ctx, task.ID, leader.ID, "final")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second save created a new row: %s != %s", second.ID, first.ID)
	}
	if second.Content != "final" {
		t.Fatalf("content = %q, want overwritten", second.Content)
	}
	if second.UpdatedBy == nil || *second.UpdatedBy != leader.ID {
		t.Fatalf("updated_by = %v, want %s", second.UpdatedBy, leader.ID)
	}
}
