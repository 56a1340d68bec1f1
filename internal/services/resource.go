package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"eventmaster/internal/domain"
	"eventmaster/internal/repository/collection"
)

type resourceService struct {
	resources      *collection.Collection[*domain.Resource]
	events         domain.EventLookup
	contextTimeout time.Duration
	now            clock
}

// NewResourceService creates a ResourceService.
func NewResourceService(kv domain.KVStore, events domain.EventLookup, logger *slog.Logger, timeout time.Duration) domain.ResourceService {
	return &resourceService{
		resources:      collection.New(kv, domain.KindResources, func(r *domain.Resource) string { return r.ID }, logger),
		events:         events,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *resourceService) CreateResource(ctx context.Context, eventID string, draft domain.ResourceDraft) (*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: resource name is required", domain.ErrInvalidInput)
	}
	if draft.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidInput)
	}
	if err := requireEvent(ctx, s.events, eventID); err != nil {
		return nil, err
	}

	now := s.now()
	res := &domain.Resource{
		ID:        newID(now),
		EventID:   eventID,
		Name:      name,
		Quantity:  draft.Quantity,
		Image:     draft.Image,
		CreatedAt: now,
	}
	if err := s.resources.Append(ctx, eventID, res); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return res, nil
}

func (s *resourceService) ListResources(ctx context.Context, eventID string) ([]*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	resources, err := s.resources.Load(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

func (s *resourceService) UpdateResource(ctx context.Context, eventID, resourceID string, patch domain.ResourcePatch) (*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: resource name is required", domain.ErrInvalidInput)
	}
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidInput)
	}
	return s.update(ctx, eventID, resourceID, func(r *domain.Resource) {
		applyString(&r.Name, patch.Name)
		if patch.Quantity != nil {
			r.Quantity = *patch.Quantity
		}
		if patch.Image != nil {
			r.Image = *patch.Image
		}
	})
}

func (s *resourceService) AdjustQuantity(ctx context.Context, eventID, resourceID string, delta int) (*domain.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.update(ctx, eventID, resourceID, func(r *domain.Resource) {
		r.Quantity = addQuantity(r.Quantity, delta)
	})
}

func (s *resourceService) DeleteResource(ctx context.Context, eventID, resourceID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.resources.Remove(ctx, eventID, resourceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

func (s *resourceService) Summary(ctx context.Context, eventID string) (*domain.ResourceSummary, error) {
	resources, err := s.ListResources(ctx, eventID)
	if err != nil {
		return nil, err
	}
	sum := &domain.ResourceSummary{Types: len(resources)}
	for _, r := range resources {
		sum.TotalItems += r.Quantity
		sum.Max = max(sum.Max, r.Quantity)
	}
	if sum.Types > 0 {
		sum.Average = int(math.Round(float64(sum.TotalItems) / float64(sum.Types)))
	}
	return sum, nil
}

func (s *resourceService) DropEvent(ctx context.Context, eventID string) error {
	if err := s.resources.Drop(ctx, eventID); err != nil {
		return fmt.Errorf("drop resources: %w", err)
	}
	return nil
}

func (s *resourceService) update(ctx context.Context, eventID, resourceID string, fn func(*domain.Resource)) (*domain.Resource, error) {
	res, err := s.resources.Update(ctx, eventID, resourceID, func(r *domain.Resource) (*domain.Resource, error) {
		fn(r)
		return r, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update resource: %w", err)
	}
	return res, nil
}

// addQuantity adds delta to a non-negative quantity, clamping at zero and
// saturating at math.MaxInt.
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(0, q+delta)
}
