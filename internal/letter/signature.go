package letter

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned for a signature file whose content is not an image.
var ErrNotImage = errors.New("signature file is not an image")

// Signature is an image inlined into the closing block.
type Signature struct {
	MIME string
	Data []byte
}

// LoadSignature reads the image at path. Callers treat any error as "no
// signature" and render the placeholder instead.
func LoadSignature(path string) (*Signature, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// Sniffed from content; SVG reports image/svg+xml
	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%s: %w (%s)", path, ErrNotImage, mime)
	}
	return &Signature{MIME: mime, Data: data}, nil
}

// DataURI returns the image as a base64 data: URI.
func (s *Signature) DataURI() template.URL {
	return template.URL("data:" + s.MIME + ";base64," + base64.StdEncoding.EncodeToString(s.Data))
}
