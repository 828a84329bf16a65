package letter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options are the fixed parts of every letter a Renderer produces.
type Options struct {
	// Header is the centered title line. Empty hides it.
	Header         string
	SignatoryName  string
	SignatoryTitle string
	// SignaturePath points at an image to inline. Empty means no signature
	// was asked for.
	SignaturePath string
}

// Rendered is one finished letter.
type Rendered struct {
	ID       string
	Date     time.Time
	Subject  string
	Document string
	// Fragment is the style block plus the letter container, for embedding
	// into a larger page.
	Fragment template.HTML

	SignatureMissing bool
}

// Renderer produces letter documents. It is safe for concurrent use.
type Renderer struct {
	opts  Options
	tmpl  *template.Template
	newID func() string
}

func NewRenderer(opts Options) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse letter templates: %w", err)
	}
	return &Renderer{
		opts:  opts,
		tmpl:  tmpl,
		newID: uuid.NewString,
	}, nil
}

type letterView struct {
	ID             string
	Header         string
	Date           string
	RecipientLines []string
	Subject        string
	// Body is inserted without escaping. It comes from the generation
	// backend, which is treated as semi-trusted; every other field is
	// escaped by html/template.
	Body template.HTML

	SignatureURI     template.URL
	SignatureMissing bool
	SignatoryName    string
	SignatoryTitle   string
}

// Render combines the request fields and the generated body into a letter.
// A signature that cannot be loaded degrades to a placeholder.
func (r *Renderer) Render(req Request, body string) (*Rendered, error) {
	view := letterView{
		ID:             r.newID(),
		Header:         r.opts.Header,
		Date:           req.FormattedDate(),
		RecipientLines: req.RecipientLines(),
		Subject:        req.Subject,
		Body:           template.HTML(body),
		SignatoryName:  r.opts.SignatoryName,
		SignatoryTitle: r.opts.SignatoryTitle,
	}

	if r.opts.SignaturePath != "" {
		sig, err := LoadSignature(r.opts.SignaturePath)
		if err != nil {
			view.SignatureMissing = true
		} else {
			view.SignatureURI = sig.DataURI()
		}
	}

	var fragment, doc bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&fragment, "fragment", view); err != nil {
		return nil, fmt.Errorf("render letter: %w", err)
	}
	if err := r.tmpl.ExecuteTemplate(&doc, "document", view); err != nil {
		return nil, fmt.Errorf("render letter document: %w", err)
	}

	return &Rendered{
		ID:               view.ID,
		Date:             req.Date,
		Subject:          req.Subject,
		Document:         doc.String(),
		Fragment:         template.HTML(fragment.String()),
		SignatureMissing: view.SignatureMissing,
	}, nil
}
