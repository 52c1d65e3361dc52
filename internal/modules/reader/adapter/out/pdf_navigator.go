package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"rsc.io/pdf"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
)

// Outline entries carry no page numbers we can resolve, so titles are
// located by searching page text, up to this many pages.
const maxOutlineScanPages = 600

type PDFNavigator struct {
	file   *os.File
	doc    *pdf.Reader
	name   string
	toc    []domain.TOCEntry
	texts  map[int]string
	cursor cursor
}

func OpenPDF(filePath string) (readerout.Navigator, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat pdf: %w", err)
	}
	doc, err := pdf.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	nav := &PDFNavigator{
		file:  f,
		doc:   doc,
		name:  filepath.Base(filePath),
		texts: map[int]string{},
	}
	nav.cursor.count = doc.NumPage()
	nav.toc = nav.outline()
	return nav, nil
}

func (n *PDFNavigator) Engine() string { return localEngine }

func (n *PDFNavigator) Kind() positiondomain.ReaderKind { return positiondomain.KindPDF }

func (n *PDFNavigator) Pages() domain.PageInfo { return domain.PageInfo{Count: n.cursor.count} }

func (n *PDFNavigator) TableOfContents() []domain.TOCEntry { return n.toc }

func (n *PDFNavigator) Locate(_ context.Context, page int) (domain.PageView, error) {
	page, err := n.cursor.move(page)
	if err != nil {
		return domain.PageView{}, err
	}
	return domain.PageView{Locator: n.locator(page), Text: n.pageText(page)}, nil
}

func (n *PDFNavigator) CurrentLocator(context.Context) (domain.Locator, bool, error) {
	if n.cursor.page == 0 {
		return domain.Locator{}, false, nil
	}
	return n.locator(n.cursor.page), true, nil
}

func (n *PDFNavigator) locator(page int) domain.Locator {
	return domain.Locator{
		Href:      n.name,
		MediaType: "application/pdf",
		Locations: domain.Locations{
			Fragments:        []string{domain.PageFragment(page)},
			Position:         domain.Int(page),
			TotalProgression: n.cursor.totalProgression(page),
		},
	}
}

func (n *PDFNavigator) Close() error {
	return n.file.Close()
}

// pageText extracts and caches the text runs of a page. Malformed content
// streams make rsc.io/pdf panic; such pages read as empty.
func (n *PDFNavigator) pageText(page int) (text string) {
	if cached, ok := n.texts[page]; ok {
		return cached
	}
	defer func() {
		if recover() != nil {
			text = ""
		}
		n.texts[page] = text
	}()
	p := n.doc.Page(page)
	if p.V.IsNull() {
		return ""
	}
	content := p.Content()
	parts := make([]string, 0, len(content.Text))
	for _, run := range content.Text {
		if strings.TrimSpace(run.S) == "" {
			continue
		}
		parts = append(parts, run.S)
	}
	return strings.Join(parts, "")
}

func (n *PDFNavigator) outline() (entries []domain.TOCEntry) {
	defer func() {
		if recover() != nil {
			entries = nil
		}
	}()
	root := n.doc.Outline()
	scan := &outlineScan{nav: n, next: 1}
	return scan.convert(root.Child)
}

type outlineScan struct {
	nav  *PDFNavigator
	next int
}

// convert assigns each outline title the first page at or after the previous
// match whose text contains it. Unmatched entries keep page 0.
func (s *outlineScan) convert(items []pdf.Outline) []domain.TOCEntry {
	entries := make([]domain.TOCEntry, 0, len(items))
	for _, item := range items {
		entry := domain.TOCEntry{Title: strings.TrimSpace(item.Title)}
		if page := s.find(entry.Title); page > 0 {
			entry.Page = page
			s.next = page
		}
		entry.Children = s.convert(item.Child)
		entries = append(entries, entry)
	}
	return entries
}

func (s *outlineScan) find(title string) int {
	needle := squash(title)
	if needle == "" {
		return 0
	}
	last := s.nav.cursor.count
	if last > maxOutlineScanPages {
		last = maxOutlineScanPages
	}
	for page := s.next; page <= last; page++ {
		if strings.Contains(squash(s.nav.pageText(page)), needle) {
			return page
		}
	}
	return 0
}

// squash lowercases and drops whitespace so per-glyph text runs compare equal to titles.
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
