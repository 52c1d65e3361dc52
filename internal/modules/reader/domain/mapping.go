package domain

import (
	positiondomain "folio/internal/modules/position/domain"
)

// PageInfo describes the navigator's pagination: a count and, for image books, the page hrefs.
type PageInfo struct {
	Count int
	Hrefs []string
}

// MapInput carries everything a locator mapping needs besides the locator itself.
type MapInput struct {
	Kind      positiondomain.ReaderKind
	DeviceID  string
	TOC       []TOCEntry
	Pages     PageInfo
	Timestamp float64
}

// MapLocator builds a ReadingPosition from a locator using the kind's locator shape.
// Missing fields fall back to defaults; it never fails.
func MapLocator(in MapInput, loc Locator) positiondomain.ReadingPosition {
	var position positiondomain.ReadingPosition
	switch in.Kind {
	case positiondomain.KindPDF:
		position = mapPDF(in, loc)
	case positiondomain.KindCBZ:
		position = mapCBZ(in, loc)
	default:
		position = mapEPUB(in, loc)
	}
	position.DeviceID = in.DeviceID
	position.Kind = in.Kind
	position.Timestamp = in.Timestamp
	return position.Normalize()
}

func mapEPUB(in MapInput, loc Locator) positiondomain.ReadingPosition {
	page := 1
	if loc.Locations.Position != nil {
		page = *loc.Locations.Position
	}
	fragment := loc.Fragment()
	tocTitle, found := TitleForResource(in.TOC, loc.Resource(), fragment)
	return positiondomain.ReadingPosition{
		Page:            page,
		MaxPage:         orDefault(in.Pages.Count, page),
		ChapterProgress: deref(loc.Locations.Progression, 0),
		TotalProgress:   deref(loc.Locations.TotalProgression, 0),
		ChapterTitle:    ChapterTitle(loc.Title, tocTitle, found),
		Fragment:        fragment,
	}
}

func mapPDF(in MapInput, loc Locator) positiondomain.ReadingPosition {
	page, ok := loc.PageFragment()
	if !ok {
		page = 1
		if loc.Locations.Position != nil {
			page = *loc.Locations.Position
		}
	}
	if page < 1 {
		page = 1
	}
	maxPage := orDefault(in.Pages.Count, page)
	tocTitle, found := TitleForPage(in.TOC, page)
	return positiondomain.ReadingPosition{
		Page:            page,
		MaxPage:         maxPage,
		ChapterProgress: deref(loc.Locations.Progression, 0),
		TotalProgress:   deref(loc.Locations.TotalProgression, ratio(page, maxPage)),
		ChapterTitle:    ChapterTitle(loc.Title, tocTitle, found),
		Fragment:        PageFragment(page),
	}
}

func mapCBZ(in MapInput, loc Locator) positiondomain.ReadingPosition {
	page := 0
	if loc.Locations.Position != nil {
		page = *loc.Locations.Position
	} else if fromFragment, ok := loc.PageFragment(); ok {
		page = fromFragment
	} else {
		page = hrefIndex(in.Pages.Hrefs, loc.Resource())
	}
	if page < 1 {
		page = 1
	}
	maxPage := orDefault(in.Pages.Count, page)
	total := deref(loc.Locations.TotalProgression, ratio(page, maxPage))
	tocTitle, found := TitleForPage(in.TOC, page)
	return positiondomain.ReadingPosition{
		Page:            page,
		MaxPage:         maxPage,
		ChapterProgress: total,
		TotalProgress:   total,
		ChapterTitle:    ChapterTitle(loc.Title, tocTitle, found),
		Fragment:        loc.Fragment(),
	}
}

func hrefIndex(hrefs []string, href string) int {
	if href == "" {
		return 0
	}
	for i, candidate := range hrefs {
		if sameResource(candidate, href) {
			return i + 1
		}
	}
	return 0
}

func deref(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func orDefault(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}

func ratio(page, maxPage int) float64 {
	if maxPage < 1 {
		return 0
	}
	return float64(page) / float64(maxPage)
}
