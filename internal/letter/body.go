package letter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

// fenceRe matches one fenced block, from its opening line to the first
// closing fence line.
var fenceRe = regexp.MustCompile("(?ms)^```([A-Za-z0-9_-]*)[ \t]*\n(?:(.*?)\n)?```[ \t]*$")

var markdown = goldmark.New()

type fencedBlock struct {
	lang string
	text string
}

// CleanBody turns raw backend output into body markup. Models sometimes wrap
// the answer in code fences despite being told not to. When the output is
// nothing but fenced blocks, each block is unwrapped and markdown-tagged ones
// are converted to HTML. Anything else passes through unchanged.
func CleanBody(raw string) (string, error) {
	body := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))

	if blocks, ok := splitFences(body); ok {
		parts := make([]string, 0, len(blocks))
		for _, b := range blocks {
			text := b.text
			if b.lang == "markdown" || b.lang == "md" {
				var buf bytes.Buffer
				if err := markdown.Convert([]byte(text), &buf); err != nil {
					return "", fmt.Errorf("convert markdown body: %w", err)
				}
				text = strings.TrimSpace(buf.String())
			}
			if text != "" {
				parts = append(parts, text)
			}
		}
		body = strings.Join(parts, "\n")
	}

	if body == "" {
		return "", ErrEmptyBody
	}
	return body, nil
}

// splitFences reports the fenced blocks body is made of. ok is false when
// anything other than whitespace sits outside the fences.
func splitFences(body string) (blocks []fencedBlock, ok bool) {
	matches := fenceRe.FindAllStringSubmatchIndex(body, -1)
	if matches == nil {
		return nil, false
	}

	last := 0
	for _, m := range matches {
		if strings.TrimSpace(body[last:m[0]]) != "" {
			return nil, false
		}
		b := fencedBlock{lang: strings.ToLower(body[m[2]:m[3]])}
		if m[4] >= 0 {
			b.text = strings.TrimSpace(body[m[4]:m[5]])
		}
		blocks = append(blocks, b)
		last = m[1]
	}
	if strings.TrimSpace(body[last:]) != "" {
		return nil, false
	}
	return blocks, true
}
