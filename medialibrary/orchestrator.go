package medialibrary

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/vortechron/go-itemmedia/auth"
	"github.com/vortechron/go-itemmedia/gateway"
	"github.com/vortechron/go-itemmedia/medialist"
	"github.com/vortechron/go-itemmedia/models"
)

// Form is what an authoring form submits: the parent item and its media list.
type Form struct {
	Item  *models.Item
	Media *medialist.List
}

// SubmitReport describes how far a submission got.
type SubmitReport struct {
	Item    *models.Item
	Created bool
	// Resequenced covers persisted entries whose seq drifted after removals.
	Resequenced *SyncReport
	// Associated covers entries that had no server id, in list order.
	Associated []EntryResult
}

// Orchestrator saves the parent item and then associates its new media.
// There is no transaction: a failure part way leaves earlier steps in place.
type Orchestrator struct {
	gw       gateway.Gateway
	sync     *Synchronizer
	logger   Logger
	notifier Notifier
	inFlight atomic.Bool
}

func NewOrchestrator(gw gateway.Gateway, options ...Option) *Orchestrator {
	opts := newOptions(options...)
	return &Orchestrator{
		gw:       gw,
		sync:     NewSynchronizer(gw, options...),
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
}

// Submit persists form.Item, re-sequences drifted entries and creates an
// association for every entry lacking a server id. Entries that already have a
// server id are never created again. The acting user comes from ctx.
func (o *Orchestrator) Submit(ctx context.Context, form Form) (*SubmitReport, error) {
	if form.Item == nil || form.Media == nil {
		return nil, ErrNoItem
	}
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInProgress
	}
	defer o.inFlight.Store(false)

	userID := auth.UserID(ctx)
	if userID == "" {
		o.notifier.Error(MsgSignInRequired)
		return nil, ErrNotSignedIn
	}

	if err := models.ValidateItem(form.Item); err != nil {
		o.logger.Warning("Rejected %s %q: %v", form.Item.Type, form.Item.Title, err)
		o.notifier.Error(MsgInvalidForm)
		return nil, err
	}

	report := &SubmitReport{}
	if err := o.submit(ctx, userID, form, report); err != nil {
		o.logger.Error("Failed to save %s %q: %v", form.Item.Type, form.Item.Title, err)
		o.notifier.Error(MsgSaveFailed)
		return report, err
	}

	o.notifier.Success(MsgSaved)
	return report, nil
}

func (o *Orchestrator) submit(ctx context.Context, userID string, form Form, report *SubmitReport) error {
	saved, err := o.saveItem(ctx, userID, form.Item)
	if err != nil {
		return err
	}
	report.Created = form.Item.IsNew()
	*form.Item = *saved
	report.Item = form.Item
	o.logger.Info("Saved %s %d (%s)", saved.Type, saved.ID, saved.Slug)

	if dirty := form.Media.Dirty(); len(dirty) > 0 {
		syncReport, err := o.sync.Sync(ctx, userID, dirty)
		report.Resequenced = syncReport
		for _, res := range syncReport.Succeeded() {
			if markErr := form.Media.MarkPersisted(res.Key, res.ServerID, res.Sequence); markErr != nil {
				return markErr
			}
		}
		if err != nil {
			return fmt.Errorf("failed to re-sequence images: %w", err)
		}
	}

	for _, entry := range form.Media.Pending() {
		res := EntryResult{Key: entry.Key, Sequence: entry.Sequence}
		created, err := o.gw.CreateItemImage(ctx, gateway.NewItemImage{
			ItemsID:      saved.ID,
			DisplayImage: entry.URL,
			Seq:          entry.Sequence,
			ImageType:    entry.Kind,
		}, userID)
		if err != nil {
			res.Status = StatusFailed
			res.Err = err
			report.Associated = append(report.Associated, res)
			return fmt.Errorf("failed to associate %s: %w", entry.URL, err)
		}
		res.Status = StatusSucceeded
		res.ServerID = created.ID
		report.Associated = append(report.Associated, res)
		if err := form.Media.MarkPersisted(entry.Key, created.ID, entry.Sequence); err != nil {
			return err
		}
		o.logger.Debug("Associated %s with item %d as image %d at seq %d", entry.URL, saved.ID, created.ID, entry.Sequence)
	}
	return nil
}

func (o *Orchestrator) saveItem(ctx context.Context, userID string, item *models.Item) (*models.Item, error) {
	if item.Slug == "" {
		item.Slug = models.Slugify(item.Title)
	}
	if item.IsNew() {
		return o.gw.CreateItem(ctx, item, userID)
	}
	saved, err := o.gw.UpdateItem(ctx, item, userID)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, fmt.Errorf("item %d no longer exists: %w", item.ID, err)
	}
	return saved, err
}
