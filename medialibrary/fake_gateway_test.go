package medialibrary

import (
	"context"
	"errors"
	"sync"

	"github.com/vortechron/go-itemmedia/auth"
	"github.com/vortechron/go-itemmedia/gateway"
	"github.com/vortechron/go-itemmedia/models"
)

var errInjected = errors.New("injected failure")

type call struct {
	Op       string
	ID       uint64
	Seq      int
	URL      string
	ActingAs string
}

// fakeGateway records every call in order and fails on demand.
type fakeGateway struct {
	mu     sync.Mutex
	calls  []call
	nextID uint64
	items  map[string]*models.Item

	updates           int
	imageCreates      int
	failUpdateAt      int
	failImageCreateAt int
	failItemSave      error
	blockItemSave     chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{nextID: 100, items: map[string]*models.Item{}}
}

func (f *fakeGateway) seed(item models.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := item
	f.items[item.Slug] = &copied
}

func (f *fakeGateway) record(c call) {
	f.calls = append(f.calls, c)
}

func (f *fakeGateway) Calls(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeGateway) CreateItemImage(ctx context.Context, img gateway.NewItemImage, actingUserID string) (*models.ItemImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{Op: "createItemImage", ID: img.ItemsID, Seq: img.Seq, URL: img.DisplayImage, ActingAs: actingUserID})
	f.imageCreates++
	if f.failImageCreateAt == f.imageCreates {
		return nil, errInjected
	}
	f.nextID++
	return &models.ItemImage{
		ID:           f.nextID,
		ItemsID:      img.ItemsID,
		DisplayImage: img.DisplayImage,
		Seq:          img.Seq,
		ImageType:    img.ImageType,
	}, nil
}

func (f *fakeGateway) UpdateItemImage(ctx context.Context, imageID uint64, patch gateway.ItemImagePatch, actingUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{Op: "updateItemImage", ID: imageID, Seq: patch.Seq, ActingAs: actingUserID})
	f.updates++
	if f.failUpdateAt == f.updates {
		return errInjected
	}
	return nil
}

func (f *fakeGateway) DeleteItemImage(ctx context.Context, imageID uint64, actingUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{Op: "deleteItemImage", ID: imageID, ActingAs: actingUserID})
	return nil
}

func (f *fakeGateway) CreateItem(ctx context.Context, item *models.Item, actingUserID string) (*models.Item, error) {
	if f.blockItemSave != nil {
		<-f.blockItemSave
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{Op: "createItem", ActingAs: actingUserID})
	if f.failItemSave != nil {
		return nil, f.failItemSave
	}
	f.nextID++
	created := *item
	created.ID = f.nextID
	return &created, nil
}

func (f *fakeGateway) UpdateItem(ctx context.Context, item *models.Item, actingUserID string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{Op: "updateItem", ID: item.ID, ActingAs: actingUserID})
	if f.failItemSave != nil {
		return nil, f.failItemSave
	}
	updated := *item
	return &updated, nil
}

func (f *fakeGateway) ListItems(ctx context.Context, opts gateway.ListOptions) (*gateway.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &gateway.Page{Page: 1, PerPage: len(f.items)}
	for _, item := range f.items {
		if opts.ItemType == "" || item.Type == opts.ItemType {
			page.Items = append(page.Items, *item)
		}
	}
	page.TotalItems = len(page.Items)
	return page, nil
}

func (f *fakeGateway) GetItemBySlug(ctx context.Context, slug string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[slug]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	copied := *item
	copied.Images = append([]models.ItemImage(nil), item.Images...)
	return &copied, nil
}

var _ gateway.Gateway = (*fakeGateway)(nil)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func quietLogger() Logger {
	return NewDefaultLogger(LogLevelNone)
}

func signedIn() context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{UserID: "admin-1"})
}
