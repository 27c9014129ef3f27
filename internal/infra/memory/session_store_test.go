//go:build !integration

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-advisory-chat/internal/domain"
	"health-advisory-chat/internal/domain/model"
)

func TestNewStoreSeedsOneActiveSession(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	active, err := store.Active(ctx)
	if err != nil {
		t.Fatalf("expected seeded active session, got error: %v", err)
	}
	if active.Title != model.DefaultTitle || active.Preview != model.DefaultPreview {
		t.Errorf("seed session not in default state: %+v", active)
	}
	if got := len(store.List(ctx)); got != 1 {
		t.Errorf("expected 1 session, got %d", got)
	}
}

func TestCreateActivatesNewSession(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	sess := store.Create(ctx)
	active, err := store.Active(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active.ID != sess.ID {
		t.Errorf("active = %s, want freshly created %s", active.ID, sess.ID)
	}
}

func TestSelectUnknownSession(t *testing.T) {
	store := NewSessionStore()
	if err := store.Select(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteNeverLeavesZeroSessions(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	// Burn through several delete cycles; after each delete the store
	// must still hold at least one session and a valid active pointer.
	for i := 0; i < 5; i++ {
		active, err := store.Active(ctx)
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		if err := store.Delete(ctx, active.ID); err != nil {
			t.Fatalf("cycle %d delete: %v", i, err)
		}
		if got := len(store.List(ctx)); got == 0 {
			t.Fatalf("cycle %d: store left with zero sessions", i)
		}
		if _, err := store.Active(ctx); err != nil {
			t.Fatalf("cycle %d: no active session after delete: %v", i, err)
		}
	}
}

func TestDeleteActiveFallsBackToInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	first, _ := store.Active(ctx)
	second := store.Create(ctx)
	third := store.Create(ctx) // active

	if err := store.Delete(ctx, third.ID); err != nil {
		t.Fatal(err)
	}
	active, err := store.Active(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active.ID != first.ID {
		t.Errorf("active = %s, want oldest remaining %s (not %s)", active.ID, first.ID, second.ID)
	}
}

func TestDeleteInactiveKeepsActivePointer(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	first, _ := store.Active(ctx)
	second := store.Create(ctx)

	if err := store.Delete(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	active, _ := store.Active(ctx)
	if active.ID != second.ID {
		t.Errorf("active = %s, want untouched %s", active.ID, second.ID)
	}
}

func TestAppendUserMessageDerivesFields(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	active, _ := store.Active(ctx)

	msg, err := store.AppendUserMessage(ctx, active.ID, "I have chest pain")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Sender != model.SenderUser {
		t.Errorf("sender = %s", msg.Sender)
	}

	sess, _ := store.FindByID(ctx, active.ID)
	if sess.Title != "I have chest pain" {
		t.Errorf("title = %q", sess.Title)
	}
	if sess.Preview != "I have chest pain" {
		t.Errorf("preview = %q", sess.Preview)
	}
}

func TestAppendToUnknownSessionIsLostNotFatal(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if _, err := store.AppendBotMessage(ctx, "gone", "late reply"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	// Other sessions must be untouched.
	active, _ := store.Active(ctx)
	if len(active.Messages) != 0 {
		t.Error("unrelated session mutated by lost append")
	}
}

func TestDeleteMessageRecomputesDerivedFields(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	active, _ := store.Active(ctx)

	msg, _ := store.AppendUserMessage(ctx, active.ID, "only message")
	if err := store.DeleteMessage(ctx, active.ID, msg.ID); err != nil {
		t.Fatal(err)
	}

	sess, _ := store.FindByID(ctx, active.ID)
	if sess.Title != model.DefaultTitle || sess.Preview != model.DefaultPreview {
		t.Errorf("expected defaults, got title=%q preview=%q", sess.Title, sess.Preview)
	}

	if err := store.DeleteMessage(ctx, active.ID, "nope"); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Errorf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestEditMessagePersists(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	active, _ := store.Active(ctx)

	msg, _ := store.AppendUserMessage(ctx, active.ID, "original")
	if err := store.EditMessage(ctx, active.ID, msg.ID, "edited"); err != nil {
		t.Fatal(err)
	}
	sess, _ := store.FindByID(ctx, active.ID)
	if sess.Messages[0].Content != "edited" {
		t.Errorf("content = %q, want edited", sess.Messages[0].Content)
	}
	if sess.Title != "edited" {
		t.Errorf("title = %q, want edited", sess.Title)
	}
}

func TestListSortedByTimestampDescending(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	a, _ := store.Active(ctx)
	b := store.Create(ctx)

	// Touch A after B was created so A is the most recent.
	time.Sleep(2 * time.Millisecond)
	if _, err := store.AppendUserMessage(ctx, a.ID, "newest activity"); err != nil {
		t.Fatal(err)
	}

	list := store.List(ctx)
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("order = [%s %s], want [%s %s]", list[0].ID, list[1].ID, a.ID, b.ID)
	}
	if list[0].Timestamp.Before(list[1].Timestamp) {
		t.Error("list not sorted by timestamp descending")
	}
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	active, _ := store.Active(ctx)
	if _, err := store.AppendUserMessage(ctx, active.ID, "hello"); err != nil {
		t.Fatal(err)
	}

	sess, _ := store.FindByID(ctx, active.ID)
	sess.Messages[0].Content = "mutated"
	sess.Title = "mutated"

	again, _ := store.FindByID(ctx, active.ID)
	if again.Messages[0].Content != "hello" || again.Title != "hello" {
		t.Error("store state leaked through returned session")
	}
}
