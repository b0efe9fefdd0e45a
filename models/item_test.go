package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Spring Drive":           "spring-drive",
		"  Gem & Mineral Show! ": "gem-mineral-show",
		"2026 Fall -- Class":     "2026-fall-class",
		"???":                    "",
		"Café Booth":             "caf-booth",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSortedImages(t *testing.T) {
	item := Item{Images: []ItemImage{
		{ID: 5, Seq: 2},
		{ID: 9, Seq: 1},
		{ID: 3, Seq: 2},
	}}
	sorted := item.SortedImages()
	assert.Equal(t, []uint64{9, 3, 5}, []uint64{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, uint64(5), item.Images[0].ID, "original slice untouched")
}

func TestStructuredImagesOnlyImages(t *testing.T) {
	entries := []MediaEntry{
		{URL: "a.jpg", Kind: MediaKindImage},
		{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Kind: MediaKindYouTube},
		{URL: "clip.mp4", Kind: MediaKindVideo},
		{URL: "b.jpg", Kind: MediaKindImage},
	}
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, StructuredImages(entries))
	assert.Nil(t, StructuredImages(nil))
}

func TestParseMediaKind(t *testing.T) {
	for in, want := range map[string]MediaKind{
		"":        MediaKindImage,
		"image":   MediaKindImage,
		"Video":   MediaKindVideo,
		"youtube": MediaKindYouTube,
	} {
		got, err := ParseMediaKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMediaKind("gif")
	assert.Error(t, err)
}

func TestItemImageEntry(t *testing.T) {
	key := uuid.Must(uuid.NewV4())
	e := ItemImage{ID: 7, DisplayImage: "x.jpg", Seq: 3}.Entry(key)
	require.True(t, e.IsPersisted())
	assert.Equal(t, uint64(7), *e.ServerID)
	assert.Equal(t, MediaKindImage, e.Kind)
	assert.False(t, e.IsDirty())

	e.Sequence = 1
	assert.True(t, e.IsDirty())
	assert.False(t, MediaEntry{Sequence: 4}.IsDirty())
}

func TestItemJSON(t *testing.T) {
	starts := time.Date(2026, 11, 7, 10, 0, 0, 0, time.UTC)
	item := Item{
		ID:    12,
		Slug:  "intro-to-faceting",
		Title: "Intro to Faceting",
		Type:  ItemTypeClass,
		Info:  EventInfo{Kind: ItemTypeClass, StartsAt: starts, Capacity: 8},
		Images: []ItemImage{
			{ID: 1, ItemsID: 12, DisplayImage: "a.jpg", Seq: 1, ImageType: MediaKindImage},
		},
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "class", raw["item_type"])
	assert.Equal(t, false, raw["Is_disabled"])
	info := raw["item_info"].(map[string]interface{})
	assert.Equal(t, float64(8), info["capacity"])
	assert.NotContains(t, raw, "created_at")

	var decoded Item
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, item.ID, decoded.ID)
	assert.Equal(t, item.Images, decoded.Images)
	got, ok := decoded.Info.(EventInfo)
	require.True(t, ok)
	assert.Equal(t, ItemTypeClass, got.InfoFor())
	assert.True(t, starts.Equal(got.StartsAt))
}

func TestItemJSONGenericInfo(t *testing.T) {
	data := []byte(`{"id":3,"slug":"quartz","title":"Quartz","item_type":"mineral","item_info":{"hardness":7,"luster":"vitreous"}}`)

	var item Item
	require.NoError(t, json.Unmarshal(data, &item))
	info, ok := item.Info.(GenericInfo)
	require.True(t, ok)
	assert.Equal(t, ItemTypeMineral, info.InfoFor())
	assert.Equal(t, "vitreous", info.Fields["luster"])

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"item_info":{"hardness":7,"luster":"vitreous"}`)
}

func TestItemJSONMissingInfo(t *testing.T) {
	var item Item
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Gem Co","item_type":"sponsor","item_info":null}`), &item))
	assert.Equal(t, SponsorInfo{}, item.Info)
}

func TestItemJSONBadInfo(t *testing.T) {
	var item Item
	err := json.Unmarshal([]byte(`{"title":"Gem Co","item_type":"sponsor","item_info":{"tier":3}}`), &item)
	assert.Error(t, err)
}
