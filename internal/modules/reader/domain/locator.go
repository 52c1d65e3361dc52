package domain

import (
	"strconv"
	"strings"
)

// Locator is a navigator's pointer into rendered content.
type Locator struct {
	Href      string    `json:"href"`
	MediaType string    `json:"type,omitempty"`
	Title     string    `json:"title,omitempty"`
	Locations Locations `json:"locations"`
}

type Locations struct {
	Fragments        []string `json:"fragments,omitempty"`
	Progression      *float64 `json:"progression,omitempty"`
	TotalProgression *float64 `json:"totalProgression,omitempty"`
	Position         *int     `json:"position,omitempty"`
}

// Resource returns the href without any #fragment.
func (l Locator) Resource() string {
	return stripFragment(l.Href)
}

// Fragment returns the first fragment, falling back to one embedded in the href.
func (l Locator) Fragment() string {
	for _, fragment := range l.Locations.Fragments {
		if fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#"); fragment != "" {
			return fragment
		}
	}
	if idx := strings.IndexByte(l.Href, '#'); idx >= 0 {
		return l.Href[idx+1:]
	}
	return ""
}

// PageFragment parses the first "page=N" fragment.
func (l Locator) PageFragment() (int, bool) {
	candidates := append([]string{}, l.Locations.Fragments...)
	if idx := strings.IndexByte(l.Href, '#'); idx >= 0 {
		candidates = append(candidates, l.Href[idx+1:])
	}
	for _, fragment := range candidates {
		fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
		for _, part := range strings.Split(fragment, "&") {
			value, ok := strings.CutPrefix(part, "page=")
			if !ok {
				continue
			}
			page, err := strconv.Atoi(value)
			if err == nil && page >= 1 {
				return page, true
			}
		}
	}
	return 0, false
}

func PageFragment(page int) string {
	return "page=" + strconv.Itoa(page)
}

func stripFragment(href string) string {
	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		return href[:idx]
	}
	return href
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
