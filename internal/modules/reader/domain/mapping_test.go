package domain_test

import (
	"testing"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/reader/domain"
)

func TestPDFPageFragmentResolvesLastChapterAtOrBeforePage(t *testing.T) {
	t.Parallel()

	in := domain.MapInput{
		Kind:     positiondomain.KindPDF,
		DeviceID: "d1",
		TOC: []domain.TOCEntry{
			{Title: "Ch1", Page: 10},
			{Title: "Ch2", Page: 15},
		},
		Pages: domain.PageInfo{Count: 40},
	}
	got := domain.MapLocator(in, domain.Locator{Locations: domain.Locations{Fragments: []string{"page=12"}}})

	if got.ChapterTitle != "Ch1" {
		t.Fatalf("expected Ch1, got %q", got.ChapterTitle)
	}
	if got.Page != 12 || got.MaxPage != 40 || got.Fragment != "page=12" {
		t.Fatalf("unexpected pages %+v", got)
	}
	if got.TotalProgress != 12.0/40.0 {
		t.Fatalf("expected derived total progress, got %f", got.TotalProgress)
	}
	if got.DeviceID != "d1" || got.Kind != positiondomain.KindPDF {
		t.Fatalf("position not tagged: %+v", got)
	}
}

func TestPDFDeepestQualifyingEntryWins(t *testing.T) {
	t.Parallel()

	toc := []domain.TOCEntry{
		{Title: "Part I", Page: 1, Children: []domain.TOCEntry{
			{Title: "1.1", Page: 2},
			{Title: "1.2", Page: 8},
		}},
		{Title: "Part II", Page: 20},
	}
	got := domain.MapLocator(domain.MapInput{Kind: positiondomain.KindPDF, TOC: toc}, domain.Locator{Locations: domain.Locations{Position: domain.Int(9)}})
	if got.ChapterTitle != "1.2" {
		t.Fatalf("expected 1.2, got %q", got.ChapterTitle)
	}
	if got.MaxPage != 9 {
		t.Fatalf("expected max page to default to page, got %d", got.MaxPage)
	}
}

func TestPDFInvalidPositionResolvesTitleForFirstPage(t *testing.T) {
	t.Parallel()

	toc := []domain.TOCEntry{{Title: "Intro", Page: 1}, {Title: "Ch1", Page: 10}}
	for _, position := range []int{0, -3} {
		got := domain.MapLocator(domain.MapInput{Kind: positiondomain.KindPDF, TOC: toc, Pages: domain.PageInfo{Count: 40}}, domain.Locator{Locations: domain.Locations{Position: domain.Int(position)}})
		if got.Page != 1 || got.ChapterTitle != "Intro" {
			t.Fatalf("position %d: expected page 1 Intro, got page %d %q", position, got.Page, got.ChapterTitle)
		}
		if got.Fragment != "page=1" {
			t.Fatalf("position %d: expected fragment page=1, got %q", position, got.Fragment)
		}
	}
}

func TestTitleFallbackChain(t *testing.T) {
	t.Parallel()

	toc := []domain.TOCEntry{{Title: "Ch1", Page: 10}}
	cases := []struct {
		name string
		loc  domain.Locator
		want string
	}{
		{name: "locator title", loc: domain.Locator{Title: "Preface", Locations: domain.Locations{Fragments: []string{"page=12"}}}, want: "Preface"},
		{name: "toc match", loc: domain.Locator{Locations: domain.Locations{Fragments: []string{"page=12"}}}, want: "Ch1"},
		{name: "fallback", loc: domain.Locator{Locations: domain.Locations{Fragments: []string{"page=3"}}}, want: domain.UnknownChapter},
		{name: "empty locator", loc: domain.Locator{}, want: domain.UnknownChapter},
	}
	for _, tc := range cases {
		got := domain.MapLocator(domain.MapInput{Kind: positiondomain.KindPDF, TOC: toc}, tc.loc)
		if got.ChapterTitle != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got.ChapterTitle)
		}
	}
}

func TestEPUBMatchesResourceAndFragment(t *testing.T) {
	t.Parallel()

	toc := []domain.TOCEntry{
		{Title: "Chapter 1", Href: "OEBPS/ch1.xhtml", Children: []domain.TOCEntry{
			{Title: "Section A", Href: "OEBPS/ch1.xhtml#a"},
			{Title: "Section B", Href: "OEBPS/ch1.xhtml#b"},
		}},
		{Title: "Chapter 2", Href: "OEBPS/ch2.xhtml"},
	}
	in := domain.MapInput{Kind: positiondomain.KindEPUB, TOC: toc, Pages: domain.PageInfo{Count: 12}}

	withFragment := domain.MapLocator(in, domain.Locator{
		Href:      "OEBPS/ch1.xhtml",
		Locations: domain.Locations{Fragments: []string{"b"}, Position: domain.Int(3), Progression: domain.Float(0.5), TotalProgression: domain.Float(0.2)},
	})
	if withFragment.ChapterTitle != "Section B" {
		t.Fatalf("expected fragment match, got %q", withFragment.ChapterTitle)
	}
	if withFragment.Page != 3 || withFragment.MaxPage != 12 || withFragment.ChapterProgress != 0.5 || withFragment.TotalProgress != 0.2 {
		t.Fatalf("unexpected epub fields %+v", withFragment)
	}
	if withFragment.Fragment != "b" {
		t.Fatalf("expected fragment b, got %q", withFragment.Fragment)
	}

	wholeResource := domain.MapLocator(in, domain.Locator{Href: "OEBPS/ch1.xhtml"})
	if wholeResource.ChapterTitle != "Chapter 1" {
		t.Fatalf("expected resource match, got %q", wholeResource.ChapterTitle)
	}
	if wholeResource.Page != 1 || wholeResource.ChapterProgress != 0 || wholeResource.TotalProgress != 0 {
		t.Fatalf("expected defaults, got %+v", wholeResource)
	}

	relative := domain.MapLocator(in, domain.Locator{Href: "ch2.xhtml"})
	if relative.ChapterTitle != "Chapter 2" {
		t.Fatalf("expected relative href match, got %q", relative.ChapterTitle)
	}

	missing := domain.MapLocator(in, domain.Locator{Href: "OEBPS/appendix.xhtml"})
	if missing.ChapterTitle != domain.UnknownChapter {
		t.Fatalf("expected fallback, got %q", missing.ChapterTitle)
	}
}

func TestEPUBDeepestResourceMatchWins(t *testing.T) {
	t.Parallel()

	toc := []domain.TOCEntry{
		{Title: "Part One", Href: "text/part1.xhtml", Children: []domain.TOCEntry{
			{Title: "Opening", Href: "text/part1.xhtml"},
		}},
	}
	got := domain.MapLocator(domain.MapInput{Kind: positiondomain.KindEPUB, TOC: toc}, domain.Locator{Href: "text/part1.xhtml"})
	if got.ChapterTitle != "Opening" {
		t.Fatalf("expected deepest match, got %q", got.ChapterTitle)
	}
}

func TestCBZPageSources(t *testing.T) {
	t.Parallel()

	in := domain.MapInput{
		Kind:  positiondomain.KindCBZ,
		TOC:   []domain.TOCEntry{{Title: "Issue 1", Page: 1}, {Title: "Issue 2", Page: 3}},
		Pages: domain.PageInfo{Count: 4, Hrefs: []string{"001.jpg", "002.jpg", "003.jpg", "004.jpg"}},
	}

	byHref := domain.MapLocator(in, domain.Locator{Href: "003.jpg"})
	if byHref.Page != 3 || byHref.ChapterTitle != "Issue 2" {
		t.Fatalf("unexpected href mapping %+v", byHref)
	}
	if byHref.TotalProgress != 0.75 || byHref.ChapterProgress != 0.75 {
		t.Fatalf("unexpected progress %+v", byHref)
	}

	byPosition := domain.MapLocator(in, domain.Locator{Href: "003.jpg", Locations: domain.Locations{Position: domain.Int(2)}})
	if byPosition.Page != 2 || byPosition.ChapterTitle != "Issue 1" {
		t.Fatalf("position should win over href: %+v", byPosition)
	}

	byFragment := domain.MapLocator(in, domain.Locator{Href: "001.jpg", Locations: domain.Locations{Fragments: []string{"page=4"}}})
	if byFragment.Page != 4 {
		t.Fatalf("fragment should win over href: %+v", byFragment)
	}

	unknown := domain.MapLocator(in, domain.Locator{Href: "cover.png"})
	if unknown.Page != 1 || unknown.MaxPage != 4 {
		t.Fatalf("expected default page, got %+v", unknown)
	}
}

func TestLocatorFragmentHelpers(t *testing.T) {
	t.Parallel()

	loc := domain.Locator{Href: "doc.pdf#page=7"}
	if page, ok := loc.PageFragment(); !ok || page != 7 {
		t.Fatalf("expected page 7 from href, got %d %v", page, ok)
	}
	if loc.Resource() != "doc.pdf" || loc.Fragment() != "page=7" {
		t.Fatalf("unexpected split %q %q", loc.Resource(), loc.Fragment())
	}
	if _, ok := (domain.Locator{Locations: domain.Locations{Fragments: []string{"page=x"}}}).PageFragment(); ok {
		t.Fatalf("malformed page fragment should not parse")
	}
}
