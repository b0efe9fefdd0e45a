// Package gateway defines the contract with the hosted items platform and an HTTP client for it.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/vortechron/go-itemmedia/models"
)

var (
	ErrNotFound = errors.New("gateway: not found")
	// ErrNoActingUser is returned when a write is attempted without a signed-in user.
	ErrNoActingUser = errors.New("gateway: no acting user")
)

// APIError is a non-2xx answer from the platform.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform returned %d: %s", e.Status, e.Message)
}

// NewItemImage is the payload of createItemImage.
type NewItemImage struct {
	ItemsID      uint64           `json:"items_id"`
	DisplayImage string           `json:"display_image"`
	Seq          int              `json:"seq"`
	ImageType    models.MediaKind `json:"image_type"`
	IsDisabled   bool             `json:"Is_disabled"`
}

// ItemImagePatch is the payload of updateItemImage.
type ItemImagePatch struct {
	Seq int `json:"seq"`
}

// ListOptions filters and paginates item listings.
type ListOptions struct {
	ItemType models.ItemType
	Page     int
	PerPage  int
}

// Page is one page of an item listing.
type Page struct {
	Items      []models.Item `json:"items"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalItems int           `json:"total_items"`
}

// HasNext reports whether another page follows
func (p *Page) HasNext() bool {
	return p.Page*p.PerPage < p.TotalItems
}

// ItemImageGateway manages media associations keyed by parent item id.
type ItemImageGateway interface {
	CreateItemImage(ctx context.Context, img NewItemImage, actingUserID string) (*models.ItemImage, error)

	UpdateItemImage(ctx context.Context, imageID uint64, patch ItemImagePatch, actingUserID string) error

	DeleteItemImage(ctx context.Context, imageID uint64, actingUserID string) error
}

// ItemGateway upserts and reads parent items.
type ItemGateway interface {
	CreateItem(ctx context.Context, item *models.Item, actingUserID string) (*models.Item, error)

	UpdateItem(ctx context.Context, item *models.Item, actingUserID string) (*models.Item, error)

	ListItems(ctx context.Context, opts ListOptions) (*Page, error)

	GetItemBySlug(ctx context.Context, slug string) (*models.Item, error)
}

// Gateway is the full platform contract.
type Gateway interface {
	ItemImageGateway
	ItemGateway
}

// Page size bounds for ListItems.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// NormalizeListOptions applies the default page size and first page
func NormalizeListOptions(opts ListOptions) ListOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 {
		opts.PerPage = DefaultPerPage
	}
	if opts.PerPage > MaxPerPage {
		opts.PerPage = MaxPerPage
	}
	return opts
}
