package domain

import "strings"

const UnknownChapter = "Unknown Chapter"

type TOCEntry struct {
	Title    string     `json:"title"`
	Href     string     `json:"href,omitempty"`
	Page     int        `json:"page,omitempty"`
	Children []TOCEntry `json:"children,omitempty"`
}

// Walk visits entries depth-first, parents before children.
func Walk(entries []TOCEntry, visit func(entry TOCEntry, depth int)) {
	var walk func([]TOCEntry, int)
	walk = func(level []TOCEntry, depth int) {
		for _, entry := range level {
			visit(entry, depth)
			walk(entry.Children, depth+1)
		}
	}
	walk(entries, 0)
}

// TitleForPage returns the title of the last entry in depth-first order whose page is <= page.
func TitleForPage(entries []TOCEntry, page int) (string, bool) {
	title, found := "", false
	Walk(entries, func(entry TOCEntry, _ int) {
		if entry.Page >= 1 && entry.Page <= page && strings.TrimSpace(entry.Title) != "" {
			title, found = entry.Title, true
		}
	})
	return title, found
}

// TitleForResource matches entries by resource. An entry whose fragment equals the
// locator fragment ranks above an entry for the whole resource, which ranks above an
// entry pointing at some other fragment of the resource. Within a rank the deepest wins.
func TitleForResource(entries []TOCEntry, resource, fragment string) (string, bool) {
	resource = stripFragment(resource)
	if resource == "" {
		return "", false
	}
	best, bestRank, bestDepth := "", -1, -1
	Walk(entries, func(entry TOCEntry, depth int) {
		if strings.TrimSpace(entry.Title) == "" || !sameResource(stripFragment(entry.Href), resource) {
			return
		}
		rank := 0
		entryFragment := ""
		if idx := strings.IndexByte(entry.Href, '#'); idx >= 0 {
			entryFragment = entry.Href[idx+1:]
		}
		switch {
		case fragment != "" && entryFragment == fragment:
			rank = 2
		case entryFragment == "":
			rank = 1
		}
		if rank > bestRank || (rank == bestRank && depth > bestDepth) {
			best, bestRank, bestDepth = entry.Title, rank, depth
		}
	})
	return best, bestRank >= 0
}

// ChapterTitle applies the title priority: locator title, then toc match, then UnknownChapter.
func ChapterTitle(locatorTitle, tocTitle string, tocFound bool) string {
	if t := strings.TrimSpace(locatorTitle); t != "" {
		return t
	}
	if tocFound && strings.TrimSpace(tocTitle) != "" {
		return tocTitle
	}
	return UnknownChapter
}

func sameResource(a, b string) bool {
	if a == b {
		return true
	}
	a, b = strings.TrimPrefix(a, "/"), strings.TrimPrefix(b, "/")
	return a == b || strings.HasSuffix(a, "/"+b) || strings.HasSuffix(b, "/"+a)
}
