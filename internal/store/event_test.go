package store

import "testing"

func TestEventRepository_Insert(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	e := &Event{
		Time:         100.5,
		Gesture:      "PALM",
		Command:      "OPEN_HAND",
		Score:        0.92,
		ResponseTime: 45.0,
		SessionID:    "session-1",
		IsCorrect:    true,
	}
	if err := repo.Insert(e); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}

	if e.ID == 0 {
		t.Error("expected insert to assign a row id")
	}

	events, err := repo.List(10)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	got := events[0]
	if got.Gesture != "PALM" || got.Command != "OPEN_HAND" {
		t.Errorf("unexpected event: %+v", got)
	}
	if got.Score != 0.92 || got.ResponseTime != 45.0 {
		t.Errorf("unexpected numeric fields: %+v", got)
	}
	if got.SessionID != "session-1" {
		t.Errorf("expected session-1, got %q", got.SessionID)
	}
	if !got.IsCorrect {
		t.Error("expected is_correct true")
	}
	if got.CreatedAt == "" {
		t.Error("expected created_at to be set by the store")
	}
}

func TestEventRepository_Insert_Defaults(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	if err := repo.Insert(&Event{Time: 100.0, Gesture: "FIST", Command: "CLOSED_HAND", Score: 0.8}); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}

	events, err := repo.List(1)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if events[0].SessionID != "default" {
		t.Errorf("expected empty session to default to 'default', got %q", events[0].SessionID)
	}
	if events[0].IsCorrect {
		t.Error("expected is_correct false to persist as false")
	}
}

func TestEventRepository_List_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	for i, g := range []string{"FIRST", "SECOND", "THIRD"} {
		e := &Event{Time: float64(100 + i), Gesture: g, Command: "NONE", Score: 0.5}
		if err := repo.Insert(e); err != nil {
			t.Fatalf("failed to insert event %d: %v", i, err)
		}
	}

	events, err := repo.List(10)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Gesture != "THIRD" || events[2].Gesture != "FIRST" {
		t.Errorf("expected newest-first order, got %q..%q", events[0].Gesture, events[2].Gesture)
	}
}

func TestEventRepository_List_Limit(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	for i := 0; i < 5; i++ {
		if err := repo.Insert(&Event{Time: float64(i), Gesture: "PALM", Command: "NONE", Score: 0.5}); err != nil {
			t.Fatalf("failed to insert event: %v", err)
		}
	}

	events, err := repo.List(2)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}
}

func TestEventRepository_CountSince(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	for _, ts := range []float64{100, 200, 300} {
		if err := repo.Insert(&Event{Time: ts, Gesture: "PALM", Command: "NONE", Score: 0.5}); err != nil {
			t.Fatalf("failed to insert event: %v", err)
		}
	}

	count, err := repo.CountSince(150)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 events since 150, got %d", count)
	}

	// The comparison is strict: a row exactly at the instant is excluded
	count, err = repo.CountSince(200)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 event since 200, got %d", count)
	}
}

func TestEventRepository_DeleteBefore(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	for _, ts := range []float64{100, 200, 300} {
		if err := repo.Insert(&Event{Time: ts, Gesture: "PALM", Command: "NONE", Score: 0.5}); err != nil {
			t.Fatalf("failed to insert event: %v", err)
		}
	}

	// The cutoff is strict: a row exactly at the cutoff survives
	deleted, err := repo.DeleteBefore(200)
	if err != nil {
		t.Fatalf("failed to delete events: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted row, got %d", deleted)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 surviving rows, got %d", count)
	}

	events, err := repo.List(10)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	for _, e := range events {
		if e.Time < 200 {
			t.Errorf("row with time %v should have been deleted", e.Time)
		}
	}
}

func TestEventRepository_DeleteBefore_Empty(t *testing.T) {
	s := newTestStore(t)

	deleted, err := s.Events().DeleteBefore(1000)
	if err != nil {
		t.Fatalf("delete on empty table failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted rows, got %d", deleted)
	}
}
