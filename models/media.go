package models

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
)

// MediaKind discriminates how a media entry is rendered.
type MediaKind string

const (
	MediaKindImage   MediaKind = "image"
	MediaKindVideo   MediaKind = "video"
	MediaKindYouTube MediaKind = "youtube"
)

// ParseMediaKind maps a platform image_type value to a MediaKind
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case MediaKindImage, "":
		return MediaKindImage, nil
	case MediaKindVideo:
		return MediaKindVideo, nil
	case MediaKindYouTube:
		return MediaKindYouTube, nil
	default:
		return "", fmt.Errorf("unknown media kind %q", s)
	}
}

// MediaEntry is one media asset attached to a parent item during an editing session.
type MediaEntry struct {
	// Key identifies the entry for the lifetime of the session, independent of position.
	Key      uuid.UUID `json:"key"`
	URL      string    `json:"url"`
	Kind     MediaKind `json:"kind"`
	ServerID *uint64   `json:"server_id,omitempty"`
	Sequence int       `json:"sequence"`
	// PersistedSequence is the seq the server last acknowledged; zero when unpersisted.
	PersistedSequence int `json:"persisted_sequence,omitempty"`
}

// IsPersisted reports whether the association exists on the server
func (e MediaEntry) IsPersisted() bool {
	return e.ServerID != nil
}

// IsDirty reports whether a persisted entry's sequence has drifted from the server's.
func (e MediaEntry) IsDirty() bool {
	return e.IsPersisted() && e.Sequence != e.PersistedSequence
}

// ItemImage is a persisted media association as the platform stores it.
type ItemImage struct {
	ID           uint64    `json:"id" gorm:"primaryKey"`
	ItemsID      uint64    `json:"items_id" gorm:"index:idx_item_seq"`
	DisplayImage string    `json:"display_image"`
	Seq          int       `json:"seq" gorm:"index:idx_item_seq"`
	ImageType    MediaKind `json:"image_type" gorm:"type:varchar(16)"`
	IsDisabled   bool      `json:"Is_disabled"`
}

func (ItemImage) TableName() string {
	return "item_images"
}

// Entry converts a persisted association into a session entry
func (img ItemImage) Entry(key uuid.UUID) MediaEntry {
	id := img.ID
	kind := img.ImageType
	if kind == "" {
		kind = MediaKindImage
	}
	return MediaEntry{
		Key:               key,
		URL:               img.DisplayImage,
		Kind:              kind,
		ServerID:          &id,
		Sequence:          img.Seq,
		PersistedSequence: img.Seq,
	}
}
