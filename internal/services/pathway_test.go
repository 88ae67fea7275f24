package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/pathwise/pathwise-backend/internal/roadmap"
	"github.com/pathwise/pathwise-backend/internal/types"
)

func TestSaveAsPathwayUpsertsByChat(t *testing.T) {
	env := newTestEnv(t)
	ctx := sessionCtx("eve@example.com", "Eve")

	chatID, err := env.chat.Create(ctx, "plans", nil, nil)
	if err != nil {
		t.Fatalf("Create chat: %v", err)
	}

	title := "Go Roadmap"
	firstID, created, err := env.pathway.SaveAsPathway(ctx, chatID, testPlan, &title, nil)
	if err != nil {
		t.Fatalf("SaveAsPathway: %v", err)
	}
	if !created {
		t.Fatal("first save should create")
	}

	secondPlan := roadmap.Roadmap{
		{Type: "TOPIC", Name: "Rust", Subtopics: []roadmap.Subtopic{}},
	}
	status := types.PathwayStatusActive
	secondID, created, err := env.pathway.SaveAsPathway(ctx, chatID, secondPlan, nil, &status)
	if err != nil {
		t.Fatalf("SaveAsPathway update: %v", err)
	}
	if created {
		t.Fatal("second save must update in place")
	}
	if secondID != firstID {
		t.Fatalf("pathway id changed: %s vs %s", secondID, firstID)
	}

	var count int64
	if err := env.db.Model(&types.Pathway{}).Where("chat_id = ?", chatID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("pathway rows = %d, want 1", count)
	}

	var stored types.Pathway
	if err := env.db.Where("id = ?", firstID).First(&stored).Error; err != nil {
		t.Fatalf("load pathway: %v", err)
	}
	var storedPlan roadmap.Roadmap
	if err := json.Unmarshal(stored.PlanSpec, &storedPlan); err != nil {
		t.Fatalf("decode plan spec: %v", err)
	}
	if len(storedPlan) != 1 || storedPlan[0].Name != "Rust" {
		t.Fatalf("plan spec = %+v, want second plan", storedPlan)
	}
	// Fields omitted from the second call keep their stored values.
	if stored.Title != "Go Roadmap" {
		t.Fatalf("title lost on update: %q", stored.Title)
	}
	if stored.Status != types.PathwayStatusActive {
		t.Fatalf("status = %q, want ACTIVE", stored.Status)
	}
}

func TestSaveAsPathwayDefaultsToDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := sessionCtx("eve@example.com", "Eve")

	chatID, err := env.chat.Create(ctx, "", nil, nil)
	if err != nil {
		t.Fatalf("Create chat: %v", err)
	}
	pathwayID, _, err := env.pathway.SaveAsPathway(ctx, chatID, testPlan, nil, nil)
	if err != nil {
		t.Fatalf("SaveAsPathway: %v", err)
	}

	var stored types.Pathway
	if err := env.db.Where("id = ?", pathwayID).First(&stored).Error; err != nil {
		t.Fatalf("load pathway: %v", err)
	}
	if stored.Status != types.PathwayStatusDraft {
		t.Fatalf("status = %q, want DRAFT", stored.Status)
	}
}

func TestSaveAsPathwayGuardsOwnershipAndStatus(t *testing.T) {
	env := newTestEnv(t)
	owner := sessionCtx("owner@example.com", "Owner")
	intruder := sessionCtx("intruder@example.com", "Intruder")

	chatID, err := env.chat.Create(owner, "", nil, nil)
	if err != nil {
		t.Fatalf("Create chat: %v", err)
	}

	if _, _, err := env.pathway.SaveAsPathway(intruder, chatID, testPlan, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign save err = %v, want ErrNotFound", err)
	}
	if _, _, err := env.pathway.SaveAsPathway(owner, uuid.New(), testPlan, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown chat err = %v, want ErrNotFound", err)
	}

	bogus := "SOMEDAY"
	if _, _, err := env.pathway.SaveAsPathway(owner, chatID, testPlan, nil, &bogus); err == nil {
		t.Fatal("invalid status accepted")
	}
}
