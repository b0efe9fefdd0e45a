package medialibrary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/gofrs/uuid"

	"github.com/vortechron/go-itemmedia/auth"
	"github.com/vortechron/go-itemmedia/gateway"
	"github.com/vortechron/go-itemmedia/medialist"
	"github.com/vortechron/go-itemmedia/models"
)

// Session is one editing session of a parent item and its media, the state an
// authoring form owns between mount and save. A Session is not safe for
// concurrent use apart from Save, which rejects overlapping calls.
type Session struct {
	gw       gateway.Gateway
	item     *models.Item
	list     *medialist.List
	drag     *medialist.Controller
	sync     *Synchronizer
	orch     *Orchestrator
	uploader *Uploader
	uploads  map[uuid.UUID]string
	logger   Logger
	notifier Notifier
}

func NewSession(gw gateway.Gateway, options ...Option) *Session {
	opts := newOptions(options...)
	// share one logger and notifier across the collaborators
	options = append(options, WithLogger(opts.Logger), WithNotifier(opts.Notifier))
	return &Session{
		gw:       gw,
		sync:     NewSynchronizer(gw, options...),
		orch:     NewOrchestrator(gw, options...),
		uploader: opts.Uploader,
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
}

// NewItem starts editing an item that does not exist yet
func (s *Session) NewItem(itemType models.ItemType, title string) *models.Item {
	s.reset(&models.Item{Type: itemType, Title: title}, medialist.New())
	return s.item
}

// LoadBySlug starts editing an existing item and its persisted media
func (s *Session) LoadBySlug(ctx context.Context, slug string) (*models.Item, error) {
	item, err := s.gw.GetItemBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	list, err := medialist.FromImages(item.Images)
	if err != nil {
		return nil, err
	}
	s.reset(item, list)
	s.logger.Debug("Loaded %s %d with %d images", item.Type, item.ID, list.Len())
	return s.item, nil
}

func (s *Session) reset(item *models.Item, list *medialist.List) {
	s.item = item
	s.list = list
	s.drag = medialist.NewController(list)
	s.uploads = make(map[uuid.UUID]string)
}

// Item returns the item being edited; nil before NewItem or LoadBySlug
func (s *Session) Item() *models.Item {
	return s.item
}

// Entries returns the media in display order
func (s *Session) Entries() []models.MediaEntry {
	if s.list == nil {
		return nil
	}
	return s.list.Entries()
}

// StructuredImages returns the image URLs for the item's schema.org "image" array
func (s *Session) StructuredImages() []string {
	return models.StructuredImages(s.Entries())
}

// AddURL appends a media reference that is already hosted somewhere
func (s *Session) AddURL(rawURL string, kind models.MediaKind) (models.MediaEntry, error) {
	if s.list == nil {
		return models.MediaEntry{}, ErrNoItem
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return models.MediaEntry{}, fmt.Errorf("invalid media url %q", rawURL)
	}
	if kind == models.MediaKindYouTube {
		return s.AddYouTube(rawURL)
	}
	return s.list.Append(rawURL, kind)
}

// AddYouTube appends a YouTube video given by id or URL
func (s *Session) AddYouTube(ref string) (models.MediaEntry, error) {
	if s.list == nil {
		return models.MediaEntry{}, ErrNoItem
	}
	watch, err := NormalizeYouTube(ref)
	if err != nil {
		return models.MediaEntry{}, err
	}
	return s.list.Append(watch, models.MediaKindYouTube)
}

// AddUpload stores a file and appends it. The association is created on Save.
func (s *Session) AddUpload(ctx context.Context, fileName string, r io.Reader) (models.MediaEntry, error) {
	if s.list == nil {
		return models.MediaEntry{}, ErrNoItem
	}
	if s.uploader == nil {
		return models.MediaEntry{}, ErrUploadsDisabled
	}
	up, err := s.uploader.Upload(ctx, s.item.Type, fileName, r)
	if err != nil {
		s.logger.Error("Upload of %s failed: %v", fileName, err)
		s.notifier.Error(MsgUploadFailed)
		return models.MediaEntry{}, err
	}
	entry, err := s.list.Append(up.URL, up.Kind)
	if err != nil {
		return models.MediaEntry{}, err
	}
	s.uploads[entry.Key] = up.Path
	return entry, nil
}

// Drop applies a drag gesture. For an item that already exists the new order
// is pushed to the platform straight away; on failure the local order is kept
// and the report says which entries the server has.
func (s *Session) Drop(ctx context.Context, ev medialist.DragEnd) (*SyncReport, error) {
	if s.list == nil {
		return nil, ErrNoItem
	}
	moved, err := s.drag.HandleDragEnd(ev)
	if err != nil || !moved {
		return nil, err
	}
	return s.pushOrder(ctx)
}

// Move is Drop addressed by list position
func (s *Session) Move(ctx context.Context, from, to int) (*SyncReport, error) {
	if s.list == nil {
		return nil, ErrNoItem
	}
	moved, err := s.drag.HandlePositionalDragEnd(medialist.PositionalDragEnd{From: from, To: &to})
	if err != nil || !moved {
		return nil, err
	}
	return s.pushOrder(ctx)
}

func (s *Session) pushOrder(ctx context.Context) (*SyncReport, error) {
	if s.item.IsNew() {
		// order is sent with the associations on Save
		return &SyncReport{}, nil
	}
	userID := auth.UserID(ctx)
	if userID == "" {
		s.notifier.Error(MsgSignInRequired)
		return nil, ErrNotSignedIn
	}

	report, err := s.sync.Sync(ctx, userID, s.list.Persisted())
	for _, res := range report.Succeeded() {
		if markErr := s.list.MarkPersisted(res.Key, res.ServerID, res.Sequence); markErr != nil {
			return report, markErr
		}
	}
	if err != nil {
		s.notifier.Error(MsgOrderFailed)
		return report, err
	}
	if len(report.Results) > 0 {
		s.notifier.Success(MsgOrderUpdated)
	}
	return report, nil
}

// Remove drops an entry. Persisted entries are deleted on the platform first;
// if that fails the entry stays in the list.
func (s *Session) Remove(ctx context.Context, key uuid.UUID) error {
	if s.list == nil {
		return ErrNoItem
	}
	entry, ok := s.list.Get(key)
	if !ok {
		return fmt.Errorf("%w: %s", medialist.ErrUnknownEntry, key)
	}

	if entry.IsPersisted() {
		userID := auth.UserID(ctx)
		if userID == "" {
			s.notifier.Error(MsgSignInRequired)
			return ErrNotSignedIn
		}
		err := s.gw.DeleteItemImage(ctx, *entry.ServerID, userID)
		if err != nil && !errors.Is(err, gateway.ErrNotFound) {
			s.logger.Error("Failed to delete image %d: %v", *entry.ServerID, err)
			s.notifier.Error(MsgRemoveFailed)
			return err
		}
	}

	if _, err := s.list.Remove(key); err != nil {
		return err
	}

	if path, ok := s.uploads[key]; ok {
		delete(s.uploads, key)
		if err := s.uploader.Discard(ctx, path); err != nil {
			s.logger.Warning("Failed to discard upload %s: %v", path, err)
		}
	}
	return nil
}

// Save submits the item and its media. See Orchestrator.Submit.
func (s *Session) Save(ctx context.Context) (*SubmitReport, error) {
	if s.item == nil {
		return nil, ErrNoItem
	}
	report, err := s.orch.Submit(ctx, Form{Item: s.item, Media: s.list})
	if report != nil {
		for _, res := range report.Associated {
			if res.Status == StatusSucceeded {
				delete(s.uploads, res.Key)
			}
		}
	}
	return report, err
}
