package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	positiondomain "folio/internal/modules/position/domain"
	"folio/internal/modules/shelf/domain"
	shelfout "folio/internal/modules/shelf/port/out"
	apperrors "folio/internal/platform/errors"
	"folio/internal/platform/markdown"
)

const defaultBody = "## Notes\n\n## Quotes\n"

// LibraryBookStore keeps one markdown note per book under <library>/books.
type LibraryBookStore struct {
	booksDir string
}

func NewLibraryBookStore(libraryPath string) shelfout.BookStore {
	return &LibraryBookStore{booksDir: filepath.Join(libraryPath, "books")}
}

func (s *LibraryBookStore) notePath(id string) string {
	return filepath.Join(s.booksDir, id+".md")
}

func (s *LibraryBookStore) Save(_ context.Context, document domain.BookDocument) (string, error) {
	book := document.Book
	path := s.notePath(book.ID)

	body := document.Body
	if strings.TrimSpace(body) == "" {
		if existing, err := markdown.ReadNote(path); err == nil {
			body = existing.Body
		}
	}
	if strings.TrimSpace(body) == "" {
		body = defaultBody
	}

	if err := markdown.WriteNote(path, markdown.Note{Meta: toFrontmatter(book), Body: body}); err != nil {
		return "", fmt.Errorf("save book %s: %w", book.ID, err)
	}
	return path, nil
}

func (s *LibraryBookStore) FindByID(_ context.Context, id string) (domain.BookDocument, error) {
	path := s.notePath(id)
	if strings.ContainsAny(id, `/\`) || strings.TrimSpace(id) == "" {
		return domain.BookDocument{}, fmt.Errorf("%w: book %q", apperrors.ErrNotFound, id)
	}
	note, err := markdown.ReadNote(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.BookDocument{}, fmt.Errorf("%w: book %q", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.BookDocument{}, fmt.Errorf("read book %s: %w", id, err)
	}
	book, err := fromFrontmatter(note.Meta, path)
	if err != nil {
		return domain.BookDocument{}, fmt.Errorf("decode book %s: %w", id, err)
	}
	return domain.BookDocument{Book: book, Body: note.Body}, nil
}

func (s *LibraryBookStore) List(_ context.Context) ([]domain.BookDocument, error) {
	matches, err := filepath.Glob(filepath.Join(s.booksDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob book notes: %w", err)
	}
	sort.Strings(matches)

	out := make([]domain.BookDocument, 0, len(matches))
	for _, path := range matches {
		note, err := markdown.ReadNote(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		book, err := fromFrontmatter(note.Meta, path)
		if err != nil {
			return nil, fmt.Errorf("decode book %s: %w", path, err)
		}
		out = append(out, domain.BookDocument{Book: book, Body: note.Body})
	}
	return out, nil
}

func (s *LibraryBookStore) Delete(_ context.Context, id string) error {
	err := os.Remove(s.notePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: book %q", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return nil
}

func toFrontmatter(book domain.Book) map[string]any {
	authors := book.Authors
	if authors == nil {
		authors = []string{}
	}
	return map[string]any{
		"schema_version": domain.SchemaVersion,
		"id":             book.ID,
		"title":          book.Title,
		"kind":           string(book.Kind),
		"file_path":      book.FilePath,
		"authors":        authors,
		"added_at":       book.AddedAt.Format(time.RFC3339),
		"updated_at":     book.UpdatedAt.Format(time.RFC3339),
	}
}

func fromFrontmatter(meta map[string]any, notePath string) (domain.Book, error) {
	book := domain.Book{
		ID:       asString(meta["id"]),
		Title:    asString(meta["title"]),
		Kind:     positiondomain.ReaderKind(asString(meta["kind"])),
		FilePath: asString(meta["file_path"]),
		Authors:  asStringSlice(meta["authors"]),
		NotePath: notePath,
	}
	if book.ID == "" {
		book.ID = strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath))
	}
	book.AddedAt, _ = time.Parse(time.RFC3339, asString(meta["added_at"]))
	book.UpdatedAt, _ = time.Parse(time.RFC3339, asString(meta["updated_at"]))
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}
