// Package medialist holds the ordered media collection edited for one parent item.
package medialist

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/vortechron/go-itemmedia/models"
)

var (
	ErrIndexOutOfRange = errors.New("medialist: index out of range")
	ErrUnknownEntry    = errors.New("medialist: unknown entry")
)

// KeyFunc produces stable entry keys.
type KeyFunc func() (uuid.UUID, error)

// List is the single source of truth for what media a parent item shows and in which order.
// Every structural change renumbers Sequence to 1..n from list position.
// A List is not safe for concurrent use.
type List struct {
	entries []models.MediaEntry
	newKey  KeyFunc
}

// New returns an empty list
func New() *List {
	return &List{newKey: uuid.NewV4}
}

// NewWithKeys returns an empty list drawing keys from fn
func NewWithKeys(fn KeyFunc) *List {
	return &List{newKey: fn}
}

// FromImages hydrates a list from persisted associations, ordered by seq.
func FromImages(images []models.ItemImage) (*List, error) {
	l := New()
	item := models.Item{Images: images}
	for _, img := range item.SortedImages() {
		if _, err := l.AppendPersisted(img); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Len returns the number of entries
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in display order
func (l *List) Entries() []models.MediaEntry {
	out := make([]models.MediaEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// At returns the entry at index
func (l *List) At(index int) (models.MediaEntry, error) {
	if index < 0 || index >= len(l.entries) {
		return models.MediaEntry{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return l.entries[index], nil
}

// IndexOf returns the position of the entry with key, or -1
func (l *List) IndexOf(key uuid.UUID) int {
	for i, e := range l.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the entry with key
func (l *List) Get(key uuid.UUID) (models.MediaEntry, bool) {
	i := l.IndexOf(key)
	if i < 0 {
		return models.MediaEntry{}, false
	}
	return l.entries[i], true
}

// Append adds a client-side entry at the end with Sequence = len+1 and no server id.
func (l *List) Append(url string, kind models.MediaKind) (models.MediaEntry, error) {
	key, err := l.newKey()
	if err != nil {
		return models.MediaEntry{}, fmt.Errorf("failed to generate entry key: %w", err)
	}
	l.entries = append(l.entries, models.MediaEntry{
		Key:  key,
		URL:  url,
		Kind: kind,
	})
	l.renumber()
	return l.entries[len(l.entries)-1], nil
}

// AppendPersisted adds an entry already associated on the server.
func (l *List) AppendPersisted(img models.ItemImage) (models.MediaEntry, error) {
	key, err := l.newKey()
	if err != nil {
		return models.MediaEntry{}, fmt.Errorf("failed to generate entry key: %w", err)
	}
	l.entries = append(l.entries, img.Entry(key))
	l.renumber()
	return l.entries[len(l.entries)-1], nil
}

// RemoveAt deletes the entry at index and renumbers the rest
func (l *List) RemoveAt(index int) (models.MediaEntry, error) {
	if index < 0 || index >= len(l.entries) {
		return models.MediaEntry{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	removed := l.entries[index]
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	l.renumber()
	return removed, nil
}

// Remove deletes the entry with key and renumbers the rest
func (l *List) Remove(key uuid.UUID) (models.MediaEntry, error) {
	i := l.IndexOf(key)
	if i < 0 {
		return models.MediaEntry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, key)
	}
	return l.RemoveAt(i)
}

// Reorder moves the entry at from to position to and renumbers every entry.
// URL and Kind are never touched.
func (l *List) Reorder(from, to int) error {
	n := len(l.entries)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: from %d", ErrIndexOutOfRange, from)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: to %d", ErrIndexOutOfRange, to)
	}
	if from != to {
		moved := l.entries[from]
		if from < to {
			copy(l.entries[from:to], l.entries[from+1:to+1])
		} else {
			copy(l.entries[to+1:from+1], l.entries[to:from])
		}
		l.entries[to] = moved
	}
	l.renumber()
	return nil
}

// MarkPersisted records the server id and acknowledged seq for key.
func (l *List) MarkPersisted(key uuid.UUID, serverID uint64, seq int) error {
	i := l.IndexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, key)
	}
	id := serverID
	l.entries[i].ServerID = &id
	l.entries[i].PersistedSequence = seq
	return nil
}

// Pending returns the entries that have no server id, in list order.
func (l *List) Pending() []models.MediaEntry {
	var out []models.MediaEntry
	for _, e := range l.entries {
		if !e.IsPersisted() {
			out = append(out, e)
		}
	}
	return out
}

// Persisted returns the entries that have a server id, in list order.
func (l *List) Persisted() []models.MediaEntry {
	var out []models.MediaEntry
	for _, e := range l.entries {
		if e.IsPersisted() {
			out = append(out, e)
		}
	}
	return out
}

// Dirty returns persisted entries whose sequence differs from the acknowledged one.
func (l *List) Dirty() []models.MediaEntry {
	var out []models.MediaEntry
	for _, e := range l.entries {
		if e.IsDirty() {
			out = append(out, e)
		}
	}
	return out
}

func (l *List) renumber() {
	for i := range l.entries {
		l.entries[i].Sequence = i + 1
	}
}
