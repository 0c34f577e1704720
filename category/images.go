package category

import (
	"strings"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

const imagePrefix = "categories/"

// staticImages — запасные картинки, если хранилище картинок не настроено.
var staticImages = map[string]string{
	"futbol":      "https://images.unsplash.com/photo-1574629810360-7efbbe195018",
	"basketbol":   "https://images.unsplash.com/photo-1546519638-68e109498ffc",
	"voleybol":    "https://images.unsplash.com/photo-1612872087720-bb876e2e67d1",
	"tenis":       "https://images.unsplash.com/photo-1595435934249-5df7ed86e1c0",
	"masa-tenisi": "https://images.unsplash.com/photo-1534158914592-062992fbe900",
	"badminton":   "https://images.unsplash.com/photo-1626224583764-f87db24ac4ea",
	"yuzme":       "https://images.unsplash.com/photo-1530549387789-4c1017266635",
	"kosu":        "https://images.unsplash.com/photo-1552674605-db6ffd4facb5",
	"bisiklet":    "https://images.unsplash.com/photo-1541625602330-2277a4c46182",
	"yuruyus":     "https://images.unsplash.com/photo-1551632811-561732d1e306",
	"fitness":     "https://images.unsplash.com/photo-1534438327276-14e5300c3a48",
	"yoga":        "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b",
	"dans":        "https://images.unsplash.com/photo-1508700929628-666bc8bd84ea",
	"boks":        "https://images.unsplash.com/photo-1549719386-74dfcbf7dbed",
	"okculuk":     "https://images.unsplash.com/photo-1511067007398-7e4b90cfa4bc",
	"satranc":     "https://images.unsplash.com/photo-1529699211952-734e80c4d42b",
	"diger":       "https://images.unsplash.com/photo-1461896836934-ffe607ba8211",
}

// PublicURLer — часть storage.FileUploader, нужная для ссылок на картинки.
type PublicURLer interface {
	GetPublicURL(key string) string
}

// Images выбирает картинку для события.
type Images struct {
	store PublicURLer
}

// NewImages: store может быть nil — тогда используется статическая таблица.
func NewImages(store PublicURLer) *Images {
	return &Images{store: store}
}

// Fallback — картинка категории; неизвестная категория получает картинку Other.
func (im *Images) Fallback(name string) string {
	slug := Slug(name)
	if im != nil && im.store != nil {
		if u := im.store.GetPublicURL(imagePrefix + slug + ".jpg"); u != "" {
			return u
		}
	}
	if u, ok := staticImages[slug]; ok {
		return u
	}
	return staticImages[rules[byName[Other]].Slug]
}

// ForEvent: картинка события → картинка категории от бэкенда → запасная по категории.
func (im *Images) ForEvent(e *models.Event, canonical string) string {
	if u := strings.TrimSpace(e.ImageURL); u != "" {
		return u
	}
	if u := e.CategoryImageURL(); u != "" {
		return u
	}
	return im.Fallback(canonical)
}
