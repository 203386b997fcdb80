package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"itemboard/internal/model"
)

type stubItemRepo struct {
	items  map[uint]*model.Item
	nextID uint
	clock  time.Time
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{
		items: make(map[uint]*model.Item),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubItemRepo) Create(item *model.Item) error {
	r.nextID++
	r.clock = r.clock.Add(time.Minute)
	item.ID = r.nextID
	item.CreatedAt = r.clock
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubItemRepo) ListAll() ([]model.Item, error) {
	out := make([]model.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubItemRepo) ListByAuthor(author string) ([]model.Item, error) {
	all, _ := r.ListAll()
	out := make([]model.Item, 0)
	for _, it := range all {
		if it.Author == author {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *stubItemRepo) GetByIDAndAuthor(id uint, author string) (*model.Item, error) {
	it, ok := r.items[id]
	if !ok || it.Author != author {
		return nil, nil
	}
	clone := *it
	return &clone, nil
}

func (r *stubItemRepo) UpdateByIDAndAuthor(id uint, author, title, body string) (int64, error) {
	it, ok := r.items[id]
	if !ok || it.Author != author {
		return 0, nil
	}
	it.Title = title
	it.Body = body
	return 1, nil
}

func (r *stubItemRepo) DeleteByIDAndAuthor(id uint, author string) (int64, error) {
	it, ok := r.items[id]
	if !ok || it.Author != author {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

// changedRowsItemRepo counts like a MySQL connection without
// clientFoundRows: an update that changes nothing reports zero rows.
type changedRowsItemRepo struct {
	*stubItemRepo
}

func (r *changedRowsItemRepo) UpdateByIDAndAuthor(id uint, author, title, body string) (int64, error) {
	it, ok := r.items[id]
	if !ok || it.Author != author {
		return 0, nil
	}
	if it.Title == title && it.Body == body {
		return 0, nil
	}
	it.Title = title
	it.Body = body
	return 1, nil
}

type capturePublisher struct {
	events []model.ActivityEvent
}

func (p *capturePublisher) Publish(_ context.Context, event model.ActivityEvent) error {
	p.events = append(p.events, event)
	return nil
}

func validBody() string {
	return strings.Repeat("b", 30)
}

func TestItemService_Create_BodyBoundary(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo, nil)
	ctx := context.Background()

	// 29 characters is rejected, exactly 30 is accepted.
	_, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: "Hello", Body: strings.Repeat("b", 29)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 29-char body, got %v", err)
	}

	item, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: "Hello", Body: strings.Repeat("b", 30)})
	if err != nil {
		t.Fatalf("expected 30-char body to be accepted, got %v", err)
	}
	if item.ID == 0 || item.Author != "alice" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestItemService_Create_TitleBoundary(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: "", Body: validBody()}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: strings.Repeat("t", 201), Body: validBody()}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 201-char title, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: strings.Repeat("t", 200), Body: validBody()}); err != nil {
		t.Fatalf("expected 200-char title to be accepted, got %v", err)
	}
}

func TestItemService_Listing_OrderAndVisibility(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo, nil)
	ctx := context.Background()

	for _, tc := range []struct{ author, title string }{
		{"alice", "first"},
		{"bob", "second"},
		{"alice", "third"},
	} {
		if _, err := svc.Create(ctx, CreateItemInput{Author: tc.author, Title: tc.title, Body: validBody()}); err != nil {
			t.Fatalf("create %q failed: %v", tc.title, err)
		}
	}

	public, err := svc.ListPublic()
	if err != nil {
		t.Fatalf("ListPublic failed: %v", err)
	}
	if len(public) != 3 {
		t.Fatalf("expected 3 public items, got %d", len(public))
	}
	for i := 1; i < len(public); i++ {
		if public[i].CreatedAt.After(public[i-1].CreatedAt) {
			t.Fatalf("public list not in descending creation order: %v before %v",
				public[i-1].CreatedAt, public[i].CreatedAt)
		}
	}
	if public[0].Title != "third" {
		t.Fatalf("expected newest item first, got %q", public[0].Title)
	}

	mine, err := svc.ListMine("alice")
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(mine) != 2 || mine[0].Title != "third" || mine[1].Title != "first" {
		t.Fatalf("unexpected ListMine result: %+v", mine)
	}
}

func TestItemService_ListPublic_Empty(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo, nil)

	items, err := svc.ListPublic()
	if err != nil {
		t.Fatalf("ListPublic on empty store failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %d items", len(items))
	}
}

func TestItemService_OwnershipEnforced(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: "Hello", Body: validBody()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Bob can neither see for edit, update nor delete Alice's item.
	if _, err := svc.GetForEdit(item.ID, "bob"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for GetForEdit, got %v", err)
	}
	if err := svc.Update(ctx, item.ID, "bob", "Stolen", validBody()); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for Update, got %v", err)
	}
	if err := svc.Delete(ctx, item.ID, "bob"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for Delete, got %v", err)
	}

	// The item is unchanged and still publicly visible.
	got, err := svc.GetForEdit(item.ID, "alice")
	if err != nil {
		t.Fatalf("owner GetForEdit failed: %v", err)
	}
	if got.Title != "Hello" {
		t.Fatalf("item was mutated by unauthorized update: %+v", got)
	}
	public, _ := svc.ListPublic()
	if len(public) != 1 {
		t.Fatalf("item disappeared from public list: %d items", len(public))
	}
}

func TestItemService_MissingItemCollapsesToNotAuthorized(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo, nil)

	if _, err := svc.GetForEdit(42, "alice"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for missing item, got %v", err)
	}
}

func TestItemService_UpdateByOwner(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: "Hello", Body: validBody()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newBody := strings.Repeat("c", 40)
	if err := svc.Update(ctx, item.ID, "alice", "Updated", newBody); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}

	got, err := svc.GetForEdit(item.ID, "alice")
	if err != nil {
		t.Fatalf("GetForEdit failed: %v", err)
	}
	if got.Title != "Updated" || got.Body != newBody {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestItemService_UpdateWithUnchangedValues(t *testing.T) {
	repo := &changedRowsItemRepo{stubItemRepo: newStubItemRepo()}
	svc := NewItemService(repo, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: "Hello", Body: validBody()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Resubmitting the edit form without touching anything must succeed
	// even when the store reports zero changed rows.
	if err := svc.Update(ctx, item.ID, "alice", "Hello", validBody()); err != nil {
		t.Fatalf("no-op update by the owner failed: %v", err)
	}

	// Zero rows for someone else's item still means not authorized.
	if err := svc.Update(ctx, item.ID, "bob", "Hello", validBody()); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for bob's update, got %v", err)
	}
}

func TestItemService_DeleteIdempotence(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewItemService(repo, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: "Hello", Body: validBody()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, item.ID, "alice"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.Delete(ctx, item.ID, "alice"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected second delete to fail with ErrNotAuthorized, got %v", err)
	}
}

func TestItemService_PublishesActivityEvents(t *testing.T) {
	repo := newStubItemRepo()
	pub := &capturePublisher{}
	svc := NewItemService(repo, pub)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateItemInput{Author: "alice", Title: "Hello", Body: validBody()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Update(ctx, item.ID, "alice", "Hello again", validBody()); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := svc.Delete(ctx, item.ID, "alice"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	want := []string{model.ActivityItemCreated, model.ActivityItemUpdated, model.ActivityItemDeleted}
	if len(pub.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(pub.events))
	}
	for i, action := range want {
		if pub.events[i].Action != action {
			t.Fatalf("event %d: expected action %q, got %q", i, action, pub.events[i].Action)
		}
		if pub.events[i].ItemID != item.ID || pub.events[i].Actor != "alice" {
			t.Fatalf("event %d carries wrong identity: %+v", i, pub.events[i])
		}
	}

	// A rejected mutation publishes nothing.
	if err := svc.Delete(ctx, item.ID, "alice"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if len(pub.events) != len(want) {
		t.Fatalf("rejected delete must not publish an event")
	}
}
