package out

import (
	"context"
	"fmt"
	"path"
	"strings"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
)

const localEngine = "local"

// LocalNavigatorFactory opens the in-process navigator matching the book kind.
type LocalNavigatorFactory struct{}

func NewLocalNavigatorFactory() readerout.NavigatorFactory {
	return LocalNavigatorFactory{}
}

func (LocalNavigatorFactory) Open(_ context.Context, book domain.BookRef) (readerout.Navigator, error) {
	switch book.Kind {
	case positiondomain.KindEPUB:
		return OpenEPUB(book.FilePath)
	case positiondomain.KindPDF:
		return OpenPDF(book.FilePath)
	case positiondomain.KindCBZ:
		return OpenCBZ(book.FilePath)
	default:
		return nil, book.Kind.Validate()
	}
}

// cursor tracks the page a local navigator currently shows; 0 means nothing shown yet.
type cursor struct {
	page  int
	count int
}

func (c *cursor) move(page int) (int, error) {
	if c.count < 1 {
		return 0, fmt.Errorf("book has no pages")
	}
	if page < 1 {
		page = 1
	}
	if page > c.count {
		page = c.count
	}
	c.page = page
	return page, nil
}

func (c *cursor) totalProgression(page int) *float64 {
	if c.count < 1 {
		return domain.Float(0)
	}
	return domain.Float(float64(page) / float64(c.count))
}

func mediaTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".xhtml", ".html", ".htm":
		return "application/xhtml+xml"
	default:
		return "application/octet-stream"
	}
}
