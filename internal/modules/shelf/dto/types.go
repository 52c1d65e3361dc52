package dto

import positiondto "folio/internal/modules/position/dto"

type AddBookInput struct {
	Path    string
	Title   string
	Kind    string
	Authors []string
}

type BookOutput struct {
	ID       string
	Title    string
	Kind     string
	FilePath string
	NotePath string
}

type BookDetailOutput struct {
	ID        string
	Title     string
	Kind      string
	FilePath  string
	NotePath  string
	Authors   []string
	AddedAt   string
	Positions []positiondto.Position
}
