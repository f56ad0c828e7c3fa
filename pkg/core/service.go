package core

import (
	"context"
	"errors"
	"sync"
)

// Service handles the business rules around document storage.
type Service struct {
	repo Repository

	mu     sync.RWMutex
	loads  int
	saves  int
	failed int
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Repository returns the underlying storage adapter.
func (s *Service) Repository() Repository {
	return s.repo
}

// ListDocuments returns every candidate document file.
func (s *Service) ListDocuments(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// LoadDocument retrieves a document and enforces the domain invariants.
func (s *Service) LoadDocument(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, errors.New("document ID cannot be empty")
	}
	doc, err := s.repo.Get(ctx, id)
	s.count(&s.loads, err)
	if err != nil {
		return Document{}, err
	}
	if err := doc.Validate(); err != nil {
		s.count(&s.failed, err)
		return Document{}, NewParseError(doc.Source, "document fails validation", err)
	}
	return doc, nil
}

// SaveDocument validates and persists a document.
func (s *Service) SaveDocument(ctx context.Context, doc Document, opts SaveOptions) (WriteReport, error) {
	if err := doc.Validate(); err != nil {
		return WriteReport{}, err
	}
	report, err := s.repo.Save(ctx, doc, opts)
	s.count(&s.saves, err)
	return report, err
}

// PreviewDocument validates a document and renders it without writing.
func (s *Service) PreviewDocument(ctx context.Context, doc Document) (WriteReport, error) {
	if err := doc.Validate(); err != nil {
		return WriteReport{}, err
	}
	return s.repo.Preview(ctx, doc)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx)
}

func (s *Service) count(counter *int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failed++
		return
	}
	*counter++
}
