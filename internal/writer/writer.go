package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sant0-9/railletter/internal/letter"
)

// Writer saves rendered letters as standalone HTML files
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Save writes the letter document and returns the file path. File names are
// <yyyy-mm-dd>-<subject>-<id prefix>.html so saved letters sort by date.
func (w *Writer) Save(l *letter.Rendered) (string, error) {
	if l == nil {
		return "", fmt.Errorf("no letter to save")
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(l))
	if err := os.WriteFile(path, []byte(l.Document), 0644); err != nil {
		return "", fmt.Errorf("write letter: %w", err)
	}
	return path, nil
}

// FileName builds the file name Save uses
func FileName(l *letter.Rendered) string {
	parts := []string{l.Date.Format("2006-01-02")}
	if s := slug(l.Subject, 40); s != "" {
		parts = append(parts, s)
	}
	id := strings.ReplaceAll(l.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	if id != "" {
		parts = append(parts, id)
	}
	return strings.Join(parts, "-") + ".html"
}

func slug(s string, maxLen int) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if r > unicode.MaxASCII {
				continue
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > maxLen {
		cut := out[:maxLen]
		if out[maxLen] != '-' {
			if i := strings.LastIndexByte(cut, '-'); i > 0 {
				cut = cut[:i]
			}
		}
		out = strings.Trim(cut, "-")
	}
	return out
}
