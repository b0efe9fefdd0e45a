package medialibrary

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vortechron/go-itemmedia/gateway"
	"github.com/vortechron/go-itemmedia/models"
)

// EntryStatus is the outcome of one remote call for one entry.
type EntryStatus int

const (
	StatusSucceeded EntryStatus = iota
	StatusFailed
	// StatusSkipped entries were never sent because an earlier call failed.
	StatusSkipped
)

func (s EntryStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("EntryStatus(%d)", int(s))
	}
}

// EntryResult records what happened to one entry.
type EntryResult struct {
	Key      uuid.UUID
	ServerID uint64
	Sequence int
	Status   EntryStatus
	Err      error
}

// SyncReport is the per-entry outcome of a Sync run, in list order.
type SyncReport struct {
	Results []EntryResult
}

func (r *SyncReport) filter(status EntryStatus) []EntryResult {
	var out []EntryResult
	for _, res := range r.Results {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

func (r *SyncReport) Succeeded() []EntryResult { return r.filter(StatusSucceeded) }
func (r *SyncReport) Failed() []EntryResult    { return r.filter(StatusFailed) }
func (r *SyncReport) Skipped() []EntryResult   { return r.filter(StatusSkipped) }

// Err joins the errors of every failed entry, or returns nil.
func (r *SyncReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			errs = append(errs, fmt.Errorf("image %d: %w", res.ServerID, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Synchronizer pushes list order to the platform, one updateItemImage per persisted entry.
type Synchronizer struct {
	gw          gateway.ItemImageGateway
	logger      Logger
	concurrency int
}

func NewSynchronizer(gw gateway.ItemImageGateway, options ...Option) *Synchronizer {
	opts := newOptions(options...)
	return &Synchronizer{
		gw:          gw,
		logger:      opts.Logger,
		concurrency: opts.SyncConcurrency,
	}
}

// Sync sends each persisted entry's sequence to the platform. Entries without a
// server id are ignored. The local list is never rolled back; the report tells
// the caller which entries the server acknowledged.
func (s *Synchronizer) Sync(ctx context.Context, actingUserID string, entries []models.MediaEntry) (*SyncReport, error) {
	var persisted []models.MediaEntry
	for _, e := range entries {
		if e.IsPersisted() {
			persisted = append(persisted, e)
		}
	}

	report := &SyncReport{Results: make([]EntryResult, len(persisted))}
	for i, e := range persisted {
		report.Results[i] = EntryResult{
			Key:      e.Key,
			ServerID: *e.ServerID,
			Sequence: e.Sequence,
			Status:   StatusSkipped,
		}
	}
	if len(persisted) == 0 {
		return report, nil
	}

	s.logger.Debug("Syncing order of %d images (concurrency %d)", len(persisted), s.concurrency)

	if s.concurrency <= 1 {
		s.syncSequential(ctx, actingUserID, report)
	} else {
		s.syncConcurrent(ctx, actingUserID, report)
	}

	if err := report.Err(); err != nil {
		s.logger.Error("Order sync finished with %d failed and %d skipped of %d: %v",
			len(report.Failed()), len(report.Skipped()), len(report.Results), err)
		return report, err
	}
	s.logger.Info("Synced order of %d images", len(report.Results))
	return report, nil
}

// syncSequential awaits each call before issuing the next and stops at the first failure.
func (s *Synchronizer) syncSequential(ctx context.Context, actingUserID string, report *SyncReport) {
	for i := range report.Results {
		res := &report.Results[i]
		if err := s.update(ctx, actingUserID, res); err != nil {
			return
		}
	}
}

// syncConcurrent runs every update with at most s.concurrency in flight.
func (s *Synchronizer) syncConcurrent(ctx context.Context, actingUserID string, report *SyncReport) {
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range report.Results {
		res := &report.Results[i]
		g.Go(func() error {
			_ = s.update(ctx, actingUserID, res)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Synchronizer) update(ctx context.Context, actingUserID string, res *EntryResult) error {
	err := ctx.Err()
	if err == nil {
		err = s.gw.UpdateItemImage(ctx, res.ServerID, gateway.ItemImagePatch{Seq: res.Sequence}, actingUserID)
	}
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		s.logger.Warning("Failed to update seq of image %d to %d: %v", res.ServerID, res.Sequence, err)
		return err
	}
	res.Status = StatusSucceeded
	s.logger.Debug("Image %d now at seq %d", res.ServerID, res.Sequence)
	return nil
}
