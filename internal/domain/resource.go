package domain

import (
	"context"
	"time"
)

// Resource is a countable supply tracked for an event.
// swagger:model Resource
type Resource struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResourceDraft is the input for a new resource.
type ResourceDraft struct {
	Name     string
	Quantity int
	Image    string
}

// ResourcePatch carries optional resource updates.
type ResourcePatch struct {
	Name     *string
	Quantity *int
	Image    *string
}

// ResourceSummary aggregates the resources of an event.
type ResourceSummary struct {
	Types      int `json:"types"`
	TotalItems int `json:"totalItems"`
	Average    int `json:"average"`
	Max        int `json:"max"`
}

// ResourceService defines resource tracking for an event.
type ResourceService interface {
	EventScoped
	CreateResource(ctx context.Context, eventID string, draft ResourceDraft) (*Resource, error)
	ListResources(ctx context.Context, eventID string) ([]*Resource, error)
	UpdateResource(ctx context.Context, eventID, resourceID string, patch ResourcePatch) (*Resource, error)
	// AdjustQuantity adds delta to the quantity, clamping the result at zero.
	AdjustQuantity(ctx context.Context, eventID, resourceID string, delta int) (*Resource, error)
	DeleteResource(ctx context.Context, eventID, resourceID string) error
	Summary(ctx context.Context, eventID string) (*ResourceSummary, error)
}
