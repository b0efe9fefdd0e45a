package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItem(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		fields []string
	}{
		{
			name: "valid campaign",
			item: Item{Title: "Spring Drive", Type: ItemTypeCampaign, Info: CampaignInfo{GoalAmount: 100, Currency: "USD"}},
		},
		{
			name: "valid without info",
			item: Item{Title: "Quartz", Type: ItemTypeMineral},
		},
		{
			name: "generic info skips struct rules",
			item: Item{Title: "Quartz", Type: ItemTypeMineral, Info: GenericInfo{Kind: ItemTypeMineral}},
		},
		{
			name:   "missing title and type",
			item:   Item{Title: "  "},
			fields: []string{"title", "item_type"},
		},
		{
			name:   "info for another type",
			item:   Item{Title: "Gem Co", Type: ItemTypeSponsor, Info: CampaignInfo{GoalAmount: 1}},
			fields: []string{"item_info"},
		},
		{
			name:   "campaign goal and currency",
			item:   Item{Title: "Drive", Type: ItemTypeCampaign, Info: CampaignInfo{GoalAmount: -10, Currency: "DOLLARS"}},
			fields: []string{"item_info.GoalAmount", "item_info.Currency"},
		},
		{
			name:   "sponsor tier",
			item:   Item{Title: "Gem Co", Type: ItemTypeSponsor, Info: SponsorInfo{Tier: "diamond", WebsiteURL: "not a url"}},
			fields: []string{"item_info.Tier", "item_info.WebsiteURL"},
		},
		{
			name: "vendor nested business",
			item: Item{Title: "Rock Shop", Type: ItemTypeVendor, Info: VendorInfo{
				Business:      LocalBusiness{Email: "nope"},
				ReferenceURLs: []string{"https://example.org", "bad"},
			}},
			fields: []string{"item_info.Business.Name", "item_info.Business.Email", "item_info.ReferenceURLs[1]"},
		},
		{
			name:   "class needs start time",
			item:   Item{Title: "Faceting", Type: ItemTypeClass, Info: EventInfo{Kind: ItemTypeClass}},
			fields: []string{"item_info.StartsAt"},
		},
		{
			name: "campaign without a goal",
			item: Item{Title: "Open Drive", Type: ItemTypeCampaign, Info: CampaignInfo{RaisedAmount: 40}},
		},
		{
			name: "class from untagged event info",
			item: Item{Title: "Lapidary 101", Type: ItemTypeClass, Info: EventInfo{StartsAt: time.Now()}},
		},
		{
			name: "mineral from untagged generic info",
			item: Item{Title: "Quartz", Type: ItemTypeMineral, Info: GenericInfo{Fields: map[string]interface{}{"hardness": 7}}},
		},
		{
			name:   "untagged event info on a sponsor",
			item:   Item{Title: "Gem Co", Type: ItemTypeSponsor, Info: EventInfo{StartsAt: time.Now()}},
			fields: []string{"item_info"},
		},
		{
			name:   "untagged generic info on a campaign",
			item:   Item{Title: "Drive", Type: ItemTypeCampaign, Info: GenericInfo{}},
			fields: []string{"item_info"},
		},
		{
			name:   "tagged event info must match",
			item:   Item{Title: "Faceting", Type: ItemTypeEvent, Info: EventInfo{Kind: ItemTypeClass, StartsAt: time.Now()}},
			fields: []string{"item_info"},
		},
		{
			name: "valid class",
			item: Item{Title: "Faceting", Type: ItemTypeClass, Info: EventInfo{Kind: ItemTypeClass, StartsAt: time.Now()}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItem(&tt.item)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.fields, verr.Fields)
			assert.Contains(t, verr.Error(), tt.fields[0])
		})
	}
}

func TestEncodeInfo(t *testing.T) {
	raw, err := EncodeInfo(GenericInfo{Kind: ItemTypeProduct})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	raw, err = EncodeInfo(SponsorInfo{Tier: "gold"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"gold"}`, string(raw))
}

func TestDecodeInfoEventKind(t *testing.T) {
	info, err := DecodeInfo(ItemTypeEvent, []byte(`{"starts_at":"2026-10-03T09:00:00Z","location":"Hall B"}`))
	require.NoError(t, err)
	ev := info.(EventInfo)
	assert.Equal(t, ItemTypeEvent, ev.InfoFor())
	assert.Equal(t, "Hall B", ev.Location)

	info, err = DecodeInfo(ItemTypeDonation, nil)
	require.NoError(t, err)
	assert.Equal(t, GenericInfo{Kind: ItemTypeDonation, Fields: map[string]interface{}{}}, info)
}
