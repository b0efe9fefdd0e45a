package medialibrary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid"

	"github.com/vortechron/go-itemmedia/conversion"
	"github.com/vortechron/go-itemmedia/models"
	"github.com/vortechron/go-itemmedia/storage"
)

// DefaultMaxUploadSize caps a single upload.
const DefaultMaxUploadSize int64 = 50 << 20

// Upload is a stored file ready to be appended to a media list.
type Upload struct {
	Path     string
	URL      string
	MimeType string
	Kind     models.MediaKind
	Size     int64
}

// Uploader stores files on a disk and reports their public URL.
type Uploader struct {
	disks       *storage.DiskManager
	diskName    string
	transformer conversion.Transformer
	paths       PathGenerator
	maxSize     int64
	logger      Logger
}

// NewUploader stores uploads on the named disk. transformer may be nil to store files untouched.
func NewUploader(disks *storage.DiskManager, diskName string, transformer conversion.Transformer, logger Logger) *Uploader {
	if logger == nil {
		logger = NewDefaultLogger(LogLevelInfo)
	}
	return &Uploader{
		disks:       disks,
		diskName:    diskName,
		transformer: transformer,
		paths:       NewPathGenerator(""),
		maxSize:     DefaultMaxUploadSize,
		logger:      logger,
	}
}

// WithPathGenerator replaces the path layout
func (u *Uploader) WithPathGenerator(p PathGenerator) *Uploader {
	u.paths = p
	return u
}

// WithMaxSize replaces the upload size cap
func (u *Uploader) WithMaxSize(n int64) *Uploader {
	u.maxSize = n
	return u
}

// Upload detects the file's kind from its content, downsizes images when an
// upload conversion is registered, and writes the result to the disk.
func (u *Uploader) Upload(ctx context.Context, itemType models.ItemType, fileName string, r io.Reader) (*Upload, error) {
	disk, err := u.disks.GetDisk(u.diskName)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk %s: %w", u.diskName, err)
	}

	data, err := io.ReadAll(io.LimitReader(r, u.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > u.maxSize {
		return nil, fmt.Errorf("%w: %s", ErrUploadTooLarge, fileName)
	}

	mime := mimetype.Detect(data)
	kind, err := kindForMime(mime.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s is %s", err, fileName, mime.String())
	}
	if filepath.Ext(fileName) == "" {
		fileName += mime.Extension()
	}
	u.logger.Debug("Detected %s (%s) for %s", mime.String(), kind, fileName)

	if kind == models.MediaKindImage {
		data, err = u.convert(ctx, data, mime.String())
		if err != nil {
			return nil, err
		}
	}

	key, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate uuid: %w", err)
	}
	path := u.paths.GetPath(itemType, key, fileName)

	err = disk.Save(ctx, path, bytes.NewReader(data),
		storage.WithContentType(mime.String()),
		storage.WithVisibility(storage.VisibilityPublic),
		storage.WithCacheMaxAge(365*24*time.Hour),
		storage.WithMetadata("item-type", string(itemType)),
		storage.WithMetadata("original-name", fileName))
	if err != nil {
		u.logger.Error("Failed to store %s: %v", path, err)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	exists, err := disk.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to verify file existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("stored file %s is missing", path)
	}

	u.logger.Info("Stored %s (%d bytes) at %s", fileName, len(data), path)
	return &Upload{
		Path:     path,
		URL:      disk.URL(path),
		MimeType: mime.String(),
		Kind:     kind,
		Size:     int64(len(data)),
	}, nil
}

// Discard removes a stored upload that was never associated.
func (u *Uploader) Discard(ctx context.Context, path string) error {
	disk, err := u.disks.GetDisk(u.diskName)
	if err != nil {
		return fmt.Errorf("failed to get disk %s: %w", u.diskName, err)
	}
	return disk.Delete(ctx, path)
}

func (u *Uploader) convert(ctx context.Context, data []byte, mime string) ([]byte, error) {
	if u.transformer == nil || !u.transformer.HasConversion(conversion.ConversionUpload) {
		return data, nil
	}

	var format imaging.Format
	switch mime {
	case "image/jpeg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	case "image/gif":
		format = imaging.GIF
	default:
		// webp, svg and friends are stored as received
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	converted, err := u.transformer.Transform(ctx, img, conversion.ConversionUpload)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	if converted.Bounds() == img.Bounds() && format != imaging.JPEG {
		return data, nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, converted, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func kindForMime(mime string) (models.MediaKind, error) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaKindImage, nil
	case strings.HasPrefix(mime, "video/"):
		return models.MediaKindVideo, nil
	default:
		return "", ErrUnsupportedMedia
	}
}
