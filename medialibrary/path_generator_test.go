package medialibrary

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vortechron/go-itemmedia/models"
)

func TestDefaultPathGenerator(t *testing.T) {
	key := uuid.Must(uuid.FromString("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))

	p := NewPathGenerator("/media/")
	assert.Equal(t, "media/campaign/6ba7b810-9dad-11d1-80b4-00c04fd430c8/spring-banner.jpg",
		p.GetPath(models.ItemTypeCampaign, key, "Spring Banner.JPG"))

	p = NewPathGenerator("")
	assert.Equal(t, "unassigned/6ba7b810-9dad-11d1-80b4-00c04fd430c8/passwd",
		p.GetPath("", key, "../../etc/passwd"))
	assert.Equal(t, "event/6ba7b810-9dad-11d1-80b4-00c04fd430c8/file.png",
		p.GetPath(models.ItemTypeEvent, key, "???.png"))
}
