package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/travelms/travel-be/internal/models"
	"github.com/travelms/travel-be/internal/storage"
)

// DestinationService serves the read-only destinations catalog.
type DestinationService struct {
	destinations storage.DestinationStore
}

// NewDestinationService constructs the service.
func NewDestinationService(destinations storage.DestinationStore) *DestinationService {
	return &DestinationService{destinations: destinations}
}

// List returns all destinations ordered by name.
func (s *DestinationService) List(ctx context.Context) ([]models.Destination, error) {
	out, err := s.destinations.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return out, nil
}

// Popular returns the curated subset shown on the landing page.
func (s *DestinationService) Popular(ctx context.Context) ([]models.Destination, error) {
	out, err := s.destinations.PopularDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("popular destinations: %w", err)
	}
	return out, nil
}

// Get fetches a single destination by id.
func (s *DestinationService) Get(ctx context.Context, id int64) (models.Destination, error) {
	d, err := s.destinations.FindDestination(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Destination{}, ErrNotFound
		}
		return models.Destination{}, fmt.Errorf("find destination: %w", err)
	}
	return d, nil
}
