package markdown

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	separator = "---\n"
	closing   = "\n---\n"
)

// Note is a markdown file with a YAML frontmatter header.
type Note struct {
	Meta map[string]any
	Body string
}

func SplitFrontmatter(content string) (Note, error) {
	if !strings.HasPrefix(content, separator) {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, closing)
	if idx < 0 {
		return Note{}, fmt.Errorf("invalid frontmatter: missing closing separator")
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return Note{}, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return Note{Meta: meta, Body: rest[idx+len(closing):]}, nil
}

func (n Note) Render() (string, error) {
	raw, err := yaml.Marshal(n.Meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(n.Body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(n.Body)
	return buf.String(), nil
}

func ReadNote(path string) (Note, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Note{}, err
	}
	note, err := SplitFrontmatter(string(raw))
	if err != nil {
		return Note{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return note, nil
}

// WriteNote renders the note and writes it, creating parent directories.
func WriteNote(path string, note Note) error {
	content, err := note.Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create note dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}
