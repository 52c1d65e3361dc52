package out

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
)

type comicInfoXML struct {
	Pages []struct {
		Image    int    `xml:"Image,attr"`
		Bookmark string `xml:"Bookmark,attr"`
	} `xml:"Pages>Page"`
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

// CBZNavigator pages through the image entries of a comic archive in name order.
type CBZNavigator struct {
	zr     *zip.ReadCloser
	images []string
	toc    []domain.TOCEntry
	cursor cursor
}

func OpenCBZ(filePath string) (readerout.Navigator, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("open cbz: %w", err)
	}
	nav := &CBZNavigator{zr: zr}
	var comicInfo *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if strings.EqualFold(path.Base(f.Name), "ComicInfo.xml") {
			comicInfo = f
			continue
		}
		if imageExtensions[strings.ToLower(path.Ext(f.Name))] {
			nav.images = append(nav.images, f.Name)
		}
	}
	sort.Strings(nav.images)
	if len(nav.images) == 0 {
		_ = zr.Close()
		return nil, fmt.Errorf("cbz has no images")
	}
	nav.cursor.count = len(nav.images)
	if comicInfo != nil {
		nav.toc = readBookmarks(comicInfo, len(nav.images))
	}
	return nav, nil
}

// readBookmarks turns ComicInfo page bookmarks into page-addressed entries.
func readBookmarks(f *zip.File, count int) []domain.TOCEntry {
	rc, err := f.Open()
	if err != nil {
		return nil
	}
	defer func() { _ = rc.Close() }()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}
	var info comicInfoXML
	if err := xml.Unmarshal(raw, &info); err != nil {
		return nil
	}
	var entries []domain.TOCEntry
	for _, page := range info.Pages {
		title := strings.TrimSpace(page.Bookmark)
		if title == "" || page.Image < 0 || page.Image >= count {
			continue
		}
		entries = append(entries, domain.TOCEntry{Title: title, Page: page.Image + 1})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Page < entries[j].Page })
	return entries
}

func (n *CBZNavigator) Engine() string { return localEngine }

func (n *CBZNavigator) Kind() positiondomain.ReaderKind { return positiondomain.KindCBZ }

func (n *CBZNavigator) Pages() domain.PageInfo {
	return domain.PageInfo{Count: len(n.images), Hrefs: append([]string(nil), n.images...)}
}

func (n *CBZNavigator) TableOfContents() []domain.TOCEntry { return n.toc }

func (n *CBZNavigator) Locate(_ context.Context, page int) (domain.PageView, error) {
	page, err := n.cursor.move(page)
	if err != nil {
		return domain.PageView{}, err
	}
	name := n.images[page-1]
	return domain.PageView{Locator: n.locator(page), Text: fmt.Sprintf("[image %d/%d] %s", page, len(n.images), path.Base(name))}, nil
}

func (n *CBZNavigator) CurrentLocator(context.Context) (domain.Locator, bool, error) {
	if n.cursor.page == 0 {
		return domain.Locator{}, false, nil
	}
	return n.locator(n.cursor.page), true, nil
}

func (n *CBZNavigator) locator(page int) domain.Locator {
	href := n.images[page-1]
	return domain.Locator{
		Href:      href,
		MediaType: mediaTypeFor(href),
		Locations: domain.Locations{
			Position:         domain.Int(page),
			TotalProgression: n.cursor.totalProgression(page),
		},
	}
}

func (n *CBZNavigator) Close() error {
	return n.zr.Close()
}
