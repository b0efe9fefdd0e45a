package medialibrary

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/vortechron/go-itemmedia/models"
)

// PathGenerator decides where an uploaded file lands on a disk.
type PathGenerator interface {
	GetPath(itemType models.ItemType, key uuid.UUID, fileName string) string
}

// DefaultPathGenerator lays files out as {prefix}/{item_type}/{key}/{file}.
type DefaultPathGenerator struct {
	prefix string
}

func NewPathGenerator(prefix string) *DefaultPathGenerator {
	return &DefaultPathGenerator{prefix: strings.Trim(prefix, "/")}
}

func (p *DefaultPathGenerator) GetPath(itemType models.ItemType, key uuid.UUID, fileName string) string {
	if itemType == "" {
		itemType = "unassigned"
	}
	return strings.TrimPrefix(path.Join(p.prefix, string(itemType), key.String(), cleanFileName(fileName)), "/")
}

// cleanFileName keeps a safe lowercase base name
func cleanFileName(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	ext := strings.ToLower(filepath.Ext(base))
	stem := models.Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	return fmt.Sprintf("%s%s", stem, ext)
}
