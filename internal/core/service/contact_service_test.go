package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type stubContactRepo struct {
	contacts map[string]*domain.Contact
	lastList ports.ListFilter
	total    int64
}

func newStubContactRepo() *stubContactRepo {
	return &stubContactRepo{contacts: make(map[string]*domain.Contact)}
}

func (r *stubContactRepo) Create(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	c.ID = "c1"
	r.contacts[c.ID] = c
	return c, nil
}

func (r *stubContactRepo) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	c, ok := r.contacts[id]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	return c, nil
}

func (r *stubContactRepo) List(ctx context.Context, f ports.ListFilter) ([]*domain.Contact, int64, error) {
	r.lastList = f
	out := make([]*domain.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		out = append(out, c)
	}
	return out, r.total, nil
}

func (r *stubContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	if _, ok := r.contacts[c.ID]; !ok {
		return domain.ErrContactNotFound
	}
	r.contacts[c.ID] = c
	return nil
}

func (r *stubContactRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.contacts[id]; !ok {
		return domain.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *stubContactRepo) CountByStatus(ctx context.Context) (*ports.StatusCounts, error) {
	return &ports.StatusCounts{Total: int64(len(r.contacts))}, nil
}

func TestContactService_SubmitStartsNew(t *testing.T) {
	repo := newStubContactRepo()
	svc := NewContactService(repo, zerolog.Nop())

	contact, err := svc.Submit(context.Background(), ports.SubmitContactInput{
		Name:    "Alice",
		Email:   "alice@example.com",
		Subject: "hello",
		Message: "message body",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if contact.Status != domain.ContactNew {
		t.Fatalf("expected status new, got %q", contact.Status)
	}
	if contact.CreatedAt.IsZero() || contact.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set")
	}
}

func TestContactService_ListNormalizesFilter(t *testing.T) {
	repo := newStubContactRepo()
	repo.total = 45
	svc := NewContactService(repo, zerolog.Nop())

	page, err := svc.List(context.Background(), ports.ListFilter{Page: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastList.Page != 1 {
		t.Fatalf("page not defaulted: %d", repo.lastList.Page)
	}
	if repo.lastList.Limit != 100 {
		t.Fatalf("limit not clamped: %d", repo.lastList.Limit)
	}
	if page.Pagination.Total != 45 || page.Pagination.Pages != 1 {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestContactService_UpdateStatus(t *testing.T) {
	repo := newStubContactRepo()
	svc := NewContactService(repo, zerolog.Nop())

	created, err := svc.Submit(context.Background(), ports.SubmitContactInput{
		Name: "Alice", Email: "a@example.com", Subject: "s", Message: "m",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), created.ID, domain.ContactReplied, "answered by phone")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.ContactReplied {
		t.Fatalf("status not applied: %q", updated.Status)
	}
	if updated.Notes != "answered by phone" {
		t.Fatalf("notes not applied: %q", updated.Notes)
	}

	// Empty notes leave the previous notes in place.
	updated, err = svc.UpdateStatus(context.Background(), created.ID, domain.ContactArchived, "")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Notes != "answered by phone" {
		t.Fatalf("notes should be preserved, got %q", updated.Notes)
	}
}

func TestContactService_UpdateStatusRejectsUnknown(t *testing.T) {
	svc := NewContactService(newStubContactRepo(), zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), "c1", domain.ContactStatus("bogus"), "")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestContactService_UpdateStatusMissingContact(t *testing.T) {
	svc := NewContactService(newStubContactRepo(), zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), "missing", domain.ContactRead, "")
	if !errors.Is(err, domain.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}
