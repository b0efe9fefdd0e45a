package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vortechron/go-itemmedia/gateway"
	"github.com/vortechron/go-itemmedia/models"
)

type itemRow struct {
	ID          uint64          `gorm:"primaryKey"`
	Slug        string          `gorm:"type:varchar(255);uniqueIndex"`
	Title       string          `gorm:"type:varchar(255)"`
	Description string          `gorm:"type:text"`
	ItemType    string          `gorm:"type:varchar(32);index"`
	IsDisabled  bool            `gorm:"column:is_disabled"`
	ItemInfo    json.RawMessage `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (itemRow) TableName() string {
	return "items"
}

// GormGateway implements the platform contract directly on a postgres database.
type GormGateway struct {
	db *gorm.DB
}

func NewGormGateway(db *gorm.DB) *GormGateway {
	return &GormGateway{
		db: db,
	}
}

func (r *GormGateway) AutoMigrate() error {
	err := r.db.AutoMigrate(&itemRow{}, &models.ItemImage{})
	if err != nil {
		return fmt.Errorf("failed to migrate item tables: %w", err)
	}
	return nil
}

func (r *GormGateway) CreateItemImage(ctx context.Context, in gateway.NewItemImage, actingUserID string) (*models.ItemImage, error) {
	if actingUserID == "" {
		return nil, gateway.ErrNoActingUser
	}
	tx := r.db.WithContext(ctx)

	var count int64
	if err := tx.Model(&itemRow{}).Where("id = ?", in.ItemsID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to look up item %d: %w", in.ItemsID, err)
	}
	if count == 0 {
		return nil, gateway.ErrNotFound
	}

	img := &models.ItemImage{
		ItemsID:      in.ItemsID,
		DisplayImage: in.DisplayImage,
		Seq:          in.Seq,
		ImageType:    in.ImageType,
		IsDisabled:   in.IsDisabled,
	}
	if err := tx.Create(img).Error; err != nil {
		return nil, fmt.Errorf("failed to create item image record: %w", err)
	}
	return img, nil
}

func (r *GormGateway) UpdateItemImage(ctx context.Context, imageID uint64, patch gateway.ItemImagePatch, actingUserID string) error {
	if actingUserID == "" {
		return gateway.ErrNoActingUser
	}
	res := r.db.WithContext(ctx).Model(&models.ItemImage{}).Where("id = ?", imageID).Update("seq", patch.Seq)
	if res.Error != nil {
		return fmt.Errorf("failed to update item image %d: %w", imageID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

func (r *GormGateway) DeleteItemImage(ctx context.Context, imageID uint64, actingUserID string) error {
	if actingUserID == "" {
		return gateway.ErrNoActingUser
	}
	res := r.db.WithContext(ctx).Delete(&models.ItemImage{}, imageID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item image %d: %w", imageID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

func (r *GormGateway) CreateItem(ctx context.Context, item *models.Item, actingUserID string) (*models.Item, error) {
	if actingUserID == "" {
		return nil, gateway.ErrNoActingUser
	}
	row, err := toRow(item)
	if err != nil {
		return nil, err
	}
	row.ID = 0
	if row.Slug == "" {
		row.Slug = models.Slugify(row.Title)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create item record: %w", err)
	}
	return fromRow(row, nil)
}

func (r *GormGateway) UpdateItem(ctx context.Context, item *models.Item, actingUserID string) (*models.Item, error) {
	if actingUserID == "" {
		return nil, gateway.ErrNoActingUser
	}
	var existing itemRow
	tx := r.db.WithContext(ctx)
	if err := tx.Where("id = ?", item.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gateway.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item %d: %w", item.ID, err)
	}

	row, err := toRow(item)
	if err != nil {
		return nil, err
	}
	if row.Slug == "" {
		row.Slug = existing.Slug
	}
	row.CreatedAt = existing.CreatedAt
	if err := tx.Save(row).Error; err != nil {
		return nil, fmt.Errorf("failed to update item record: %w", err)
	}

	images, err := r.imagesFor(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return fromRow(row, images)
}

func (r *GormGateway) ListItems(ctx context.Context, opts gateway.ListOptions) (*gateway.Page, error) {
	opts = gateway.NormalizeListOptions(opts)
	tx := r.db.WithContext(ctx).Model(&itemRow{})
	if opts.ItemType != "" {
		tx = tx.Where("item_type = ?", string(opts.ItemType))
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	var rows []*itemRow
	if err := tx.Order("id").Offset((opts.Page - 1) * opts.PerPage).Limit(opts.PerPage).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	images, err := r.imagesForItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	page := &gateway.Page{Page: opts.Page, PerPage: opts.PerPage, TotalItems: int(total), Items: []models.Item{}}
	for _, row := range rows {
		item, err := fromRow(row, images[row.ID])
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, *item)
	}
	return page, nil
}

func (r *GormGateway) GetItemBySlug(ctx context.Context, slug string) (*models.Item, error) {
	var row itemRow
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gateway.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item by slug: %w", err)
	}
	images, err := r.imagesFor(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return fromRow(&row, images)
}

func (r *GormGateway) imagesFor(ctx context.Context, itemID uint64) ([]models.ItemImage, error) {
	var images []models.ItemImage
	if err := r.db.WithContext(ctx).Where("items_id = ?", itemID).Order("seq, id").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to find images for item %d: %w", itemID, err)
	}
	return images, nil
}

// imagesForItems loads the images of several items in one query, grouped by item.
func (r *GormGateway) imagesForItems(ctx context.Context, itemIDs []uint64) (map[uint64][]models.ItemImage, error) {
	grouped := make(map[uint64][]models.ItemImage, len(itemIDs))
	if len(itemIDs) == 0 {
		return grouped, nil
	}
	var images []models.ItemImage
	if err := r.db.WithContext(ctx).Where("items_id IN ?", itemIDs).Order("items_id, seq, id").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to find images for %d items: %w", len(itemIDs), err)
	}
	for _, img := range images {
		grouped[img.ItemsID] = append(grouped[img.ItemsID], img)
	}
	return grouped, nil
}

func toRow(item *models.Item) (*itemRow, error) {
	row := &itemRow{
		ID:          item.ID,
		Slug:        item.Slug,
		Title:       item.Title,
		Description: item.Description,
		ItemType:    string(item.Type),
		IsDisabled:  item.IsDisabled,
		ItemInfo:    json.RawMessage("{}"),
	}
	if item.Info != nil {
		raw, err := models.EncodeInfo(item.Info)
		if err != nil {
			return nil, err
		}
		row.ItemInfo = raw
	}
	return row, nil
}

func fromRow(row *itemRow, images []models.ItemImage) (*models.Item, error) {
	info, err := models.DecodeInfo(models.ItemType(row.ItemType), row.ItemInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to decode item_info for item %d: %w", row.ID, err)
	}
	return &models.Item{
		ID:          row.ID,
		Slug:        row.Slug,
		Title:       row.Title,
		Description: row.Description,
		Type:        models.ItemType(row.ItemType),
		IsDisabled:  row.IsDisabled,
		Info:        info,
		Images:      images,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

var _ gateway.Gateway = (*GormGateway)(nil)
