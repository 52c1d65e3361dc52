package out_test

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folio/internal/modules/engine/dto"
	enginein "folio/internal/modules/engine/port/in"
	positiondomain "folio/internal/modules/position/domain"
	readerout "folio/internal/modules/reader/adapter/out"
	"folio/internal/modules/reader/domain"
	apperrors "folio/internal/platform/errors"
)

func writeZip(t *testing.T, name string, files map[string]string, order ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, entry := range order {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatalf("zip entry %s: %v", entry, err)
		}
		if _, err := w.Write([]byte(files[entry])); err != nil {
			t.Fatalf("zip write %s: %v", entry, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return p
}

func writeEPUB(t *testing.T, withNav bool) string {
	t.Helper()
	manifestNav := ""
	if withNav {
		manifestNav = `<item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>`
	}
	files := map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?><container xmlns="urn:oasis:names:tc:opendocument:xmlns:container" version="1.0"><rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?><package xmlns="http://www.idpf.org/2007/opf" version="3.0"><manifest>` + manifestNav +
			`<item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>` +
			`<item id="c1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>` +
			`<item id="c2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>` +
			`<item id="notes" href="text/notes.xhtml" media-type="application/xhtml+xml"/>` +
			`</manifest><spine toc="ncx"><itemref idref="c1"/><itemref idref="notes" linear="no"/><itemref idref="c2"/></spine></package>`,
		"OEBPS/nav.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops"><body><nav epub:type="toc"><ol>` +
			`<li><a href="text/ch1.xhtml">One</a><ol><li><a href="text/ch1.xhtml#s2">One, part two</a></li></ol></li>` +
			`<li><a href="text/ch2.xhtml">Two</a></li></ol></nav></body></html>`,
		"OEBPS/toc.ncx": `<?xml version="1.0"?><ncx xmlns="http://www.daisy.org/z3986/2005/ncx/"><navMap>` +
			`<navPoint id="a"><navLabel><text>NCX One</text></navLabel><content src="text/ch1.xhtml"/></navPoint>` +
			`<navPoint id="b"><navLabel><text>NCX Two</text></navLabel><content src="text/ch2.xhtml"/></navPoint>` +
			`</navMap></ncx>`,
		"OEBPS/text/ch1.xhtml":   `<html><body><h1>One</h1><p>It was a dark night.</p><script>ignored()</script></body></html>`,
		"OEBPS/text/ch2.xhtml":   `<html><body><h1>Two</h1><p>Morning came.</p></body></html>`,
		"OEBPS/text/notes.xhtml": `<html><body><p>Notes</p></body></html>`,
	}
	order := []string{"mimetype", "META-INF/container.xml", "OEBPS/content.opf", "OEBPS/toc.ncx", "OEBPS/text/ch1.xhtml", "OEBPS/text/ch2.xhtml", "OEBPS/text/notes.xhtml"}
	if withNav {
		order = append(order, "OEBPS/nav.xhtml")
	}
	return writeZip(t, "book.epub", files, order...)
}

func TestEPUBNavigatorReadsSpineAndNavDocument(t *testing.T) {
	t.Parallel()
	nav, err := readerout.OpenEPUB(writeEPUB(t, true))
	if err != nil {
		t.Fatalf("open epub: %v", err)
	}
	defer func() { _ = nav.Close() }()

	pages := nav.Pages()
	if pages.Count != 2 || pages.Hrefs[0] != "OEBPS/text/ch1.xhtml" || pages.Hrefs[1] != "OEBPS/text/ch2.xhtml" {
		t.Fatalf("unexpected spine: %+v", pages)
	}
	toc := nav.TableOfContents()
	if len(toc) != 2 || toc[0].Title != "One" || len(toc[0].Children) != 1 {
		t.Fatalf("unexpected toc: %+v", toc)
	}
	if toc[0].Children[0].Href != "OEBPS/text/ch1.xhtml#s2" {
		t.Fatalf("unexpected child href: %s", toc[0].Children[0].Href)
	}

	ctx := context.Background()
	if _, ok, _ := nav.CurrentLocator(ctx); ok {
		t.Fatalf("no locator expected before the first locate")
	}
	view, err := nav.Locate(ctx, 2)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if !strings.Contains(view.Text, "Morning came.") {
		t.Fatalf("unexpected page text: %q", view.Text)
	}
	current, ok, err := nav.CurrentLocator(ctx)
	if err != nil || !ok || current.Href != "OEBPS/text/ch2.xhtml" {
		t.Fatalf("unexpected current locator: %+v ok=%v err=%v", current, ok, err)
	}

	position := domain.MapLocator(domain.MapInput{Kind: nav.Kind(), DeviceID: "d", TOC: toc, Pages: pages}, current)
	if position.ChapterTitle != "Two" || position.Page != 2 || position.MaxPage != 2 {
		t.Fatalf("unexpected mapped position: %+v", position)
	}
}

func TestEPUBNavigatorFallsBackToNCX(t *testing.T) {
	t.Parallel()
	nav, err := readerout.OpenEPUB(writeEPUB(t, false))
	if err != nil {
		t.Fatalf("open epub: %v", err)
	}
	defer func() { _ = nav.Close() }()

	toc := nav.TableOfContents()
	if len(toc) != 2 || toc[0].Title != "NCX One" || toc[1].Href != "OEBPS/text/ch2.xhtml" {
		t.Fatalf("unexpected ncx toc: %+v", toc)
	}
	view, err := nav.Locate(context.Background(), 1)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if strings.Contains(view.Text, "ignored") {
		t.Fatalf("script content should be dropped: %q", view.Text)
	}
}

func TestCBZNavigatorSortsImagesAndReadsBookmarks(t *testing.T) {
	t.Parallel()
	files := map[string]string{
		"p03.png":            "c",
		"p01.png":            "a",
		"__MACOSX/._p01.png": "junk",
		"p02.jpg":            "b",
		"readme.txt":         "skip",
		"ComicInfo.xml":      `<ComicInfo><Pages><Page Image="0" Bookmark="Cover"/><Page Image="2" Bookmark="Finale"/><Page Image="9" Bookmark="Out of range"/></Pages></ComicInfo>`,
	}
	p := writeZip(t, "comic.cbz", files, "p03.png", "p01.png", "__MACOSX/._p01.png", "p02.jpg", "readme.txt", "ComicInfo.xml")
	nav, err := readerout.OpenCBZ(p)
	if err != nil {
		t.Fatalf("open cbz: %v", err)
	}
	defer func() { _ = nav.Close() }()

	pages := nav.Pages()
	if pages.Count != 3 || pages.Hrefs[0] != "p01.png" || pages.Hrefs[2] != "p03.png" {
		t.Fatalf("unexpected pages: %+v", pages)
	}
	toc := nav.TableOfContents()
	if len(toc) != 2 || toc[0].Page != 1 || toc[1].Title != "Finale" || toc[1].Page != 3 {
		t.Fatalf("unexpected bookmarks: %+v", toc)
	}

	view, err := nav.Locate(context.Background(), 99)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if view.Locator.Href != "p03.png" || view.Locator.MediaType != "image/png" {
		t.Fatalf("locate should clamp to the last page: %+v", view.Locator)
	}
	position := domain.MapLocator(domain.MapInput{Kind: nav.Kind(), DeviceID: "d", TOC: toc, Pages: pages}, view.Locator)
	if position.Page != 3 || position.ChapterTitle != "Finale" || position.TotalProgress != 1 {
		t.Fatalf("unexpected mapped position: %+v", position)
	}
}

func TestCBZWithoutImagesFails(t *testing.T) {
	t.Parallel()
	p := writeZip(t, "empty.cbz", map[string]string{"readme.txt": "x"}, "readme.txt")
	if _, err := readerout.OpenCBZ(p); err == nil {
		t.Fatalf("expected error for archive without images")
	}
}

func TestLocalFactoryRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	_, err := readerout.NewLocalNavigatorFactory().Open(context.Background(), domain.BookRef{ID: "x", Kind: "mobi"})
	if !errors.Is(err, apperrors.ErrUnsupportedKind) {
		t.Fatalf("expected unsupported kind, got %v", err)
	}
}

type fakeEngines struct {
	engine    string
	attachErr error
	attached  int
}

func (f *fakeEngines) List(context.Context) ([]dto.EngineInfo, error)     { return nil, nil }
func (f *fakeEngines) Doctor(context.Context) ([]dto.DoctorResult, error) { return nil, nil }
func (f *fakeEngines) EngineFor(_ context.Context, kind string) (dto.EngineInfo, bool, error) {
	if f.engine == "" || kind != string(positiondomain.KindCBZ) {
		return dto.EngineInfo{}, false, nil
	}
	return dto.EngineInfo{Name: f.engine, Enabled: true, Kinds: []string{kind}}, true, nil
}
func (f *fakeEngines) Attach(_ context.Context, name, bookPath string) (enginein.BookHandle, error) {
	f.attached++
	if f.attachErr != nil {
		return nil, f.attachErr
	}
	return &fakeHandle{name: name, path: bookPath}, nil
}

type fakeHandle struct {
	name   string
	path   string
	page   int
	closed bool
}

func (h *fakeHandle) Engine() string { return h.name }
func (h *fakeHandle) TableOfContents(context.Context) ([]domain.TOCEntry, error) {
	return []domain.TOCEntry{{Title: "Start", Page: 1}}, nil
}
func (h *fakeHandle) PositionCount(context.Context) (domain.PageInfo, error) {
	return domain.PageInfo{Count: 4}, nil
}
func (h *fakeHandle) Locate(_ context.Context, page int) (domain.PageView, error) {
	h.page = page
	return domain.PageView{Locator: domain.Locator{Href: h.path, Locations: domain.Locations{Position: domain.Int(page)}}}, nil
}
func (h *fakeHandle) CurrentLocator(context.Context) (domain.Locator, bool, error) {
	return domain.Locator{}, false, nil
}
func (h *fakeHandle) Close() error { h.closed = true; return nil }

func TestEngineAwareFactoryPrefersEngine(t *testing.T) {
	t.Parallel()
	engines := &fakeEngines{engine: "comics"}
	factory := readerout.NewEngineAwareFactory(engines, readerout.NewLocalNavigatorFactory(), nil)

	nav, err := factory.Open(context.Background(), domain.BookRef{ID: "saga", Kind: positiondomain.KindCBZ, FilePath: "/books/saga.cbz"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if nav.Engine() != "comics" || nav.Pages().Count != 4 {
		t.Fatalf("expected engine navigator, got engine=%s pages=%d", nav.Engine(), nav.Pages().Count)
	}
	view, err := nav.Locate(context.Background(), 10)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if *view.Locator.Locations.Position != 4 {
		t.Fatalf("engine navigator should clamp to the page count, got %d", *view.Locator.Locations.Position)
	}
}

func TestEngineAwareFactoryFallsBackToLocal(t *testing.T) {
	t.Parallel()
	p := writeZip(t, "comic.cbz", map[string]string{"a.png": "a"}, "a.png")
	engines := &fakeEngines{engine: "comics", attachErr: errors.New("checksum mismatch")}
	factory := readerout.NewEngineAwareFactory(engines, readerout.NewLocalNavigatorFactory(), nil)

	nav, err := factory.Open(context.Background(), domain.BookRef{ID: "c", Kind: positiondomain.KindCBZ, FilePath: p})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = nav.Close() }()
	if nav.Engine() != "local" || engines.attached != 1 {
		t.Fatalf("expected local fallback after failed attach, engine=%s attached=%d", nav.Engine(), engines.attached)
	}
}
