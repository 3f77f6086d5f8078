package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"video_feed/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// Document is the JSON shape read by the website.
type Document struct {
	Updated  string         `json:"updated"`
	Featured *domain.Video  `json:"featured"`
	History  []domain.Video `json:"history"`
}

func NewDocument(feed *domain.Feed) Document {
	history := feed.History
	if history == nil {
		history = []domain.Video{}
	}
	return Document{
		Updated:  feed.Updated.UTC().Format(timestampLayout),
		Featured: feed.Featured,
		History:  history,
	}
}

// Encode renders the document indented by two spaces, leaving HTML and
// non-ASCII characters unescaped.
func Encode(feed *domain.Feed) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(feed)); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	return buf.Bytes(), nil
}

// FileWriter replaces the feed file on every write.
type FileWriter struct {
	path string
}

func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

func (w *FileWriter) Path() string {
	return w.path
}

// Write creates missing parent directories and swaps the new content in with
// a rename, so readers see either the old file or the complete new one.
func (w *FileWriter) Write(feed *domain.Feed) error {
	data, err := Encode(feed)
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace %s: %w", w.path, err)
	}

	return nil
}
