package domain

import positiondomain "folio/internal/modules/position/domain"

type BookRef struct {
	ID       string
	Title    string
	Kind     positiondomain.ReaderKind
	FilePath string
}

// PageView is what a reader surface shows for one page.
type PageView struct {
	Locator Locator
	Text    string
}
