package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ItemInfo is the type-specific payload stored in an item's item_info bag.
type ItemInfo interface {
	InfoFor() ItemType
}

// CampaignInfo holds fundraising data.
type CampaignInfo struct {
	GoalAmount   float64    `json:"goal_amount" validate:"omitempty,gt=0"`
	RaisedAmount float64    `json:"raised_amount" validate:"gte=0"`
	Currency     string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
}

func (CampaignInfo) InfoFor() ItemType { return ItemTypeCampaign }

// SponsorInfo holds sponsorship tier data.
type SponsorInfo struct {
	Tier       string     `json:"tier" validate:"required,oneof=bronze silver gold platinum"`
	WebsiteURL string     `json:"website_url,omitempty" validate:"omitempty,url"`
	ExpiresAt  *time.Time `json:"expiration_date,omitempty"`
}

func (SponsorInfo) InfoFor() ItemType { return ItemTypeSponsor }

// PostalAddress mirrors schema.org PostalAddress.
type PostalAddress struct {
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty" validate:"omitempty,len=2"`
}

// LocalBusiness mirrors the schema.org LocalBusiness fields vendors publish.
type LocalBusiness struct {
	Name       string        `json:"name" validate:"required"`
	Telephone  string        `json:"telephone,omitempty"`
	Email      string        `json:"email,omitempty" validate:"omitempty,email"`
	URL        string        `json:"url,omitempty" validate:"omitempty,url"`
	PriceRange string        `json:"priceRange,omitempty"`
	Address    PostalAddress `json:"address"`
}

// VendorInfo holds vendor directory data.
type VendorInfo struct {
	Business      LocalBusiness `json:"local_business" validate:"required"`
	BoothNumber   string        `json:"booth_number,omitempty"`
	ReferenceURLs []string      `json:"reference_urls,omitempty" validate:"omitempty,dive,url"`
}

func (VendorInfo) InfoFor() ItemType { return ItemTypeVendor }

// EventInfo holds scheduling data for events and classes.
type EventInfo struct {
	Kind         ItemType   `json:"-"`
	StartsAt     time.Time  `json:"starts_at" validate:"required"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	Location     string     `json:"location,omitempty"`
	ReferenceURL string     `json:"reference_url,omitempty" validate:"omitempty,url"`
	Capacity     int        `json:"capacity,omitempty" validate:"gte=0"`
}

func (i EventInfo) InfoFor() ItemType {
	if i.Kind == "" {
		return ItemTypeEvent
	}
	return i.Kind
}

// GenericInfo carries the open bag for item types without a dedicated shape.
type GenericInfo struct {
	Kind   ItemType               `json:"-"`
	Fields map[string]interface{} `json:"-"`
}

func (i GenericInfo) InfoFor() ItemType { return i.Kind }

// EncodeInfo serializes info into the item_info JSON bag
func EncodeInfo(info ItemInfo) (json.RawMessage, error) {
	if g, ok := info.(GenericInfo); ok {
		if g.Fields == nil {
			return json.RawMessage("{}"), nil
		}
		return json.Marshal(g.Fields)
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item_info: %w", err)
	}
	return raw, nil
}

// DecodeInfo parses an item_info bag according to the item type
func DecodeInfo(itemType ItemType, raw json.RawMessage) (ItemInfo, error) {
	empty := len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))

	var info ItemInfo
	switch itemType {
	case ItemTypeCampaign:
		var v CampaignInfo
		if !empty {
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
		}
		info = v
	case ItemTypeSponsor:
		var v SponsorInfo
		if !empty {
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
		}
		info = v
	case ItemTypeVendor:
		var v VendorInfo
		if !empty {
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
		}
		info = v
	case ItemTypeEvent, ItemTypeClass:
		v := EventInfo{Kind: itemType}
		if !empty {
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
		}
		info = v
	default:
		v := GenericInfo{Kind: itemType, Fields: map[string]interface{}{}}
		if !empty {
			if err := json.Unmarshal(raw, &v.Fields); err != nil {
				return nil, err
			}
		}
		info = v
	}
	return info, nil
}

var validate = validator.New()

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid item: " + strings.Join(e.Fields, ", ")
}

// infoMatches reports whether info may be carried by an item of type t.
// EventInfo and GenericInfo without a Kind take it from the item.
func infoMatches(info ItemInfo, t ItemType) bool {
	switch v := info.(type) {
	case EventInfo:
		if v.Kind == "" {
			return t == ItemTypeEvent || t == ItemTypeClass
		}
	case GenericInfo:
		if v.Kind == "" {
			return !hasDedicatedInfo(t)
		}
	}
	return info.InfoFor() == t
}

func hasDedicatedInfo(t ItemType) bool {
	switch t {
	case ItemTypeCampaign, ItemTypeSponsor, ItemTypeVendor, ItemTypeEvent, ItemTypeClass:
		return true
	}
	return false
}

// ValidateItem checks the required item fields and the type-specific info.
// Returns a *ValidationError when any field is invalid.
func ValidateItem(item *Item) error {
	var fields []string
	if strings.TrimSpace(item.Title) == "" {
		fields = append(fields, "title")
	}
	if item.Type == "" {
		fields = append(fields, "item_type")
	}
	if item.Info != nil {
		if item.Type != "" && !infoMatches(item.Info, item.Type) {
			fields = append(fields, "item_info")
		} else if _, generic := item.Info.(GenericInfo); !generic {
			if err := validate.Struct(item.Info); err != nil {
				var verrs validator.ValidationErrors
				if !errors.As(err, &verrs) {
					return fmt.Errorf("failed to validate item_info: %w", err)
				}
				for _, fe := range verrs {
					fields = append(fields, "item_info."+fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:])
				}
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
