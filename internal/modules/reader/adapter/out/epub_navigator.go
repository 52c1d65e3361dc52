package out

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
	readerout "folio/internal/modules/reader/port/out"
)

type containerXML struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfXML struct {
	Manifest []opfItem `xml:"manifest>item"`
	Spine    struct {
		Toc      string `xml:"toc,attr"`
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type ncxXML struct {
	NavPoints []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxNavPoint struct {
	Label   string `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// EPUBNavigator pages through the spine: one position per spine document.
type EPUBNavigator struct {
	zr     *zip.ReadCloser
	spine  []string
	toc    []domain.TOCEntry
	cursor cursor
}

func OpenEPUB(filePath string) (readerout.Navigator, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	nav := &EPUBNavigator{zr: zr}
	if err := nav.load(); err != nil {
		_ = zr.Close()
		return nil, err
	}
	nav.cursor.count = len(nav.spine)
	return nav, nil
}

func (n *EPUBNavigator) load() error {
	raw, err := n.read("META-INF/container.xml")
	if err != nil {
		return fmt.Errorf("read container: %w", err)
	}
	var container containerXML
	if err := xml.Unmarshal(raw, &container); err != nil {
		return fmt.Errorf("parse container: %w", err)
	}
	opfPath := ""
	for _, rootfile := range container.Rootfiles {
		if rootfile.FullPath != "" && (rootfile.MediaType == "" || rootfile.MediaType == "application/oebps-package+xml") {
			opfPath = rootfile.FullPath
			break
		}
	}
	if opfPath == "" {
		return fmt.Errorf("epub has no package document")
	}

	raw, err = n.read(opfPath)
	if err != nil {
		return fmt.Errorf("read package: %w", err)
	}
	var opf opfXML
	if err := xml.Unmarshal(raw, &opf); err != nil {
		return fmt.Errorf("parse package: %w", err)
	}

	opfDir := path.Dir(opfPath)
	items := make(map[string]opfItem, len(opf.Manifest))
	var navItem, ncxItem *opfItem
	for i, item := range opf.Manifest {
		items[item.ID] = item
		if hasProperty(item.Properties, "nav") {
			navItem = &opf.Manifest[i]
		}
		if item.MediaType == "application/x-dtbncx+xml" || (opf.Spine.Toc != "" && item.ID == opf.Spine.Toc) {
			ncxItem = &opf.Manifest[i]
		}
	}
	for _, ref := range opf.Spine.ItemRefs {
		item, ok := items[ref.IDRef]
		if !ok || ref.Linear == "no" {
			continue
		}
		n.spine = append(n.spine, resolveHref(opfDir, item.Href))
	}
	if len(n.spine) == 0 {
		return fmt.Errorf("epub spine is empty")
	}

	if navItem != nil {
		navPath := resolveHref(opfDir, navItem.Href)
		if raw, err := n.read(navPath); err == nil {
			n.toc = parseNavDocument(raw, path.Dir(navPath))
		}
	}
	if len(n.toc) == 0 && ncxItem != nil {
		ncxPath := resolveHref(opfDir, ncxItem.Href)
		if raw, err := n.read(ncxPath); err == nil {
			var ncx ncxXML
			if xml.Unmarshal(raw, &ncx) == nil {
				n.toc = convertNavPoints(ncx.NavPoints, path.Dir(ncxPath))
			}
		}
	}
	return nil
}

func (n *EPUBNavigator) read(name string) ([]byte, error) {
	f, err := n.zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func (n *EPUBNavigator) Engine() string { return localEngine }

func (n *EPUBNavigator) Kind() positiondomain.ReaderKind { return positiondomain.KindEPUB }

func (n *EPUBNavigator) Pages() domain.PageInfo {
	return domain.PageInfo{Count: len(n.spine), Hrefs: append([]string(nil), n.spine...)}
}

func (n *EPUBNavigator) TableOfContents() []domain.TOCEntry { return n.toc }

func (n *EPUBNavigator) Locate(_ context.Context, page int) (domain.PageView, error) {
	page, err := n.cursor.move(page)
	if err != nil {
		return domain.PageView{}, err
	}
	view := domain.PageView{Locator: n.locator(page)}
	if raw, err := n.read(n.spine[page-1]); err == nil {
		view.Text = htmlText(raw)
	}
	return view, nil
}

func (n *EPUBNavigator) CurrentLocator(context.Context) (domain.Locator, bool, error) {
	if n.cursor.page == 0 {
		return domain.Locator{}, false, nil
	}
	return n.locator(n.cursor.page), true, nil
}

func (n *EPUBNavigator) locator(page int) domain.Locator {
	href := n.spine[page-1]
	return domain.Locator{
		Href:      href,
		MediaType: mediaTypeFor(href),
		Locations: domain.Locations{
			Position:         domain.Int(page),
			Progression:      domain.Float(0),
			TotalProgression: domain.Float(float64(page-1) / float64(len(n.spine))),
		},
	}
}

func (n *EPUBNavigator) Close() error {
	return n.zr.Close()
}

// resolveHref joins a document-relative href onto dir, keeping any #fragment.
func resolveHref(dir, href string) string {
	fragment := ""
	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		href, fragment = href[:idx], href[idx:]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if href == "" {
		return fragment
	}
	if dir != "" && dir != "." {
		href = path.Join(dir, href)
	} else {
		href = path.Clean(href)
	}
	return href + fragment
}

func hasProperty(properties, want string) bool {
	for _, p := range strings.Fields(properties) {
		if p == want {
			return true
		}
	}
	return false
}

func parseNavDocument(raw []byte, dir string) []domain.TOCEntry {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	var tocNav, firstNav *html.Node
	var find func(*html.Node)
	find = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "nav" {
			if firstNav == nil {
				firstNav = node
			}
			for _, attr := range node.Attr {
				if (attr.Key == "epub:type" || attr.Key == "type" || attr.Key == "role") && strings.Contains(attr.Val, "toc") && tocNav == nil {
					tocNav = node
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if tocNav == nil {
		tocNav = firstNav
	}
	if tocNav == nil {
		return nil
	}
	for c := tocNav.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "ol" {
			return parseNavList(c, dir)
		}
	}
	return nil
}

func parseNavList(ol *html.Node, dir string) []domain.TOCEntry {
	var entries []domain.TOCEntry
	for li := ol.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		entry := domain.TOCEntry{}
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "a":
				entry.Title = collapse(nodeText(c))
				for _, attr := range c.Attr {
					if attr.Key == "href" {
						entry.Href = resolveHref(dir, attr.Val)
					}
				}
			case "span":
				if entry.Title == "" {
					entry.Title = collapse(nodeText(c))
				}
			case "ol":
				entry.Children = parseNavList(c, dir)
			}
		}
		if entry.Title != "" || entry.Href != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

func convertNavPoints(points []ncxNavPoint, dir string) []domain.TOCEntry {
	entries := make([]domain.TOCEntry, 0, len(points))
	for _, point := range points {
		entries = append(entries, domain.TOCEntry{
			Title:    collapse(point.Label),
			Href:     resolveHref(dir, point.Content.Src),
			Children: convertNavPoints(point.Children, dir),
		})
	}
	return entries
}

func nodeText(node *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return sb.String()
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "section": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "blockquote": true,
}

// htmlText flattens an XHTML document body into paragraphs of plain text.
func htmlText(raw []byte) string {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	var paragraphs []string
	var current strings.Builder
	flush := func() {
		if text := collapse(current.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "head", "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			current.WriteString(n.Data)
			current.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()
	return strings.Join(paragraphs, "\n\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
