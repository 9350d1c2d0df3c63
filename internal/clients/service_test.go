package clients

import (
	"context"
	"errors"
	"testing"
)

type staticCounter map[string]int

func (c staticCounter) CountByClient(ctx context.Context, userID, clientID string) (int, error) {
	return c[clientID], nil
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepo(), staticCounter{})

	email := "jo@example.com"
	client, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "Jo Smith", Email: &email})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Get(context.Background(), "user-1", client.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Jo Smith" || got.Email == nil || *got.Email != email {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	svc := NewService(NewMemoryRepo(), staticCounter{})
	client, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "Jo"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-2", client.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListIncludesPolicyCounts(t *testing.T) {
	repo := NewMemoryRepo()
	counter := staticCounter{}
	svc := NewService(repo, counter)

	a, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "B"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	counter[a.ID] = 2
	counter[b.ID] = 0

	items, err := svc.List(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(items))
	}
	counts := map[string]int{}
	for _, item := range items {
		counts[item.ID] = item.PoliciesCount
	}
	if counts[a.ID] != 2 || counts[b.ID] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(NewMemoryRepo(), staticCounter{})
	client, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "Before"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), "user-1", client.ID, CreateInput{Name: "After"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "After" {
		t.Fatalf("name not updated: %s", updated.Name)
	}

	if err := svc.Delete(context.Background(), "user-1", client.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-1", client.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
