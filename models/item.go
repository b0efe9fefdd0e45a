package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ItemType is the platform's item_type discriminator.
type ItemType string

const (
	ItemTypeCampaign   ItemType = "campaign"
	ItemTypeSponsor    ItemType = "sponsor"
	ItemTypeVendor     ItemType = "vendor"
	ItemTypeEvent      ItemType = "event"
	ItemTypeClass      ItemType = "class"
	ItemTypeMineral    ItemType = "mineral"
	ItemTypeProduct    ItemType = "product"
	ItemTypeMembership ItemType = "membership"
	ItemTypeDonation   ItemType = "donation"
)

// Item is a parent content item owning an ordered media collection.
type Item struct {
	ID          uint64
	Slug        string
	Title       string
	Description string
	Type        ItemType
	IsDisabled  bool
	Info        ItemInfo
	Images      []ItemImage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsNew reports whether the item has not been created on the platform yet
func (i *Item) IsNew() bool {
	return i.ID == 0
}

// SortedImages returns the associations ordered by seq, then id.
func (i *Item) SortedImages() []ItemImage {
	images := make([]ItemImage, len(i.Images))
	copy(images, i.Images)
	sort.SliceStable(images, func(a, b int) bool {
		if images[a].Seq != images[b].Seq {
			return images[a].Seq < images[b].Seq
		}
		return images[a].ID < images[b].ID
	})
	return images
}

// StructuredImages lists image URLs in display order for schema.org "image" arrays.
// Videos and YouTube references are excluded.
func StructuredImages(entries []MediaEntry) []string {
	var urls []string
	for _, e := range entries {
		if e.Kind == MediaKindImage {
			urls = append(urls, e.URL)
		}
	}
	return urls
}

// Slugify derives a URL slug from a title
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

type itemWire struct {
	ID          uint64          `json:"id,omitempty"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Type        ItemType        `json:"item_type"`
	IsDisabled  bool            `json:"Is_disabled"`
	Info        json.RawMessage `json:"item_info,omitempty"`
	Images      []ItemImage     `json:"item_images,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

func (i Item) MarshalJSON() ([]byte, error) {
	w := itemWire{
		ID:          i.ID,
		Slug:        i.Slug,
		Title:       i.Title,
		Description: i.Description,
		Type:        i.Type,
		IsDisabled:  i.IsDisabled,
		Images:      i.Images,
	}
	if !i.CreatedAt.IsZero() {
		w.CreatedAt = &i.CreatedAt
	}
	if !i.UpdatedAt.IsZero() {
		w.UpdatedAt = &i.UpdatedAt
	}
	if i.Info != nil {
		raw, err := EncodeInfo(i.Info)
		if err != nil {
			return nil, err
		}
		w.Info = raw
	}
	return json.Marshal(w)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var w itemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	info, err := DecodeInfo(w.Type, w.Info)
	if err != nil {
		return fmt.Errorf("failed to decode item_info for %s: %w", w.Type, err)
	}
	*i = Item{
		ID:          w.ID,
		Slug:        w.Slug,
		Title:       w.Title,
		Description: w.Description,
		Type:        w.Type,
		IsDisabled:  w.IsDisabled,
		Info:        info,
		Images:      w.Images,
	}
	if w.CreatedAt != nil {
		i.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		i.UpdatedAt = *w.UpdatedAt
	}
	return nil
}
