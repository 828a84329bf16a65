package letter

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

var (
	subjectRe   = regexp.MustCompile(`(?s)<div class="subject-line">Sub: (.*?)</div>`)
	dateRe      = regexp.MustCompile(`(?s)<div class="text-right date-line"><strong>Date:</strong> (.*?)</div>`)
	bodyRe      = regexp.MustCompile(`(?s)<div class="letter-body">(.*?)</div>`)
	recipientRe = regexp.MustCompile(`(?s)<div class="recipient">(.*?)</div>`)
)

func region(t *testing.T, re *regexp.Regexp, html string) string {
	t.Helper()
	m := re.FindStringSubmatch(html)
	if m == nil {
		t.Fatalf("region %s not found in:\n%s", re, html)
	}
	return m[1]
}

func mustRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func TestRenderLeaveRequest(t *testing.T) {
	req, err := Build(Fields{
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Recipient: "The DRM,\nCentral Railway.",
		Subject:   "Leave Request",
		Details:   "Request 5 days casual leave from 20-01-2024.",
	}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}

	body := "<p>Respected Sir, ...</p>"
	out, err := mustRenderer(t, Options{Header: "Application"}).Render(req, body)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for name, html := range map[string]string{"document": out.Document, "fragment": string(out.Fragment)} {
		t.Run(name, func(t *testing.T) {
			if got := region(t, subjectRe, html); got != "Leave Request" {
				t.Errorf("subject region = %q", got)
			}
			if got := region(t, dateRe, html); got != "15-01-2024" {
				t.Errorf("date region = %q", got)
			}
			if got := region(t, bodyRe, html); got != body {
				t.Errorf("body region = %q, want %q", got, body)
			}
			if !strings.Contains(html, "Yours Faithfully,") {
				t.Error("missing closing salutation")
			}
			if !strings.Contains(html, "@media print") || !strings.Contains(html, "visibility: hidden") {
				t.Error("missing print rule")
			}
		})
	}

	if out.ID == "" {
		t.Error("ID is empty")
	}
	if !strings.HasPrefix(out.Document, "<!DOCTYPE html>") {
		t.Errorf("Document does not start with a doctype: %.40q", out.Document)
	}
}

func TestRenderRecipientLineBreaks(t *testing.T) {
	r := mustRenderer(t, Options{})
	for _, n := range []int{1, 2, 5} {
		lines := make([]string, n)
		for i := range lines {
			lines[i] = "line"
		}
		req, err := Build(Fields{Recipient: strings.Join(lines, "\n"), Details: "x"}, fixedNow)
		if err != nil {
			t.Fatal(err)
		}
		out, err := r.Render(req, "<p>b</p>")
		if err != nil {
			t.Fatal(err)
		}
		block := region(t, recipientRe, out.Document)
		if got := strings.Count(block, "<br>"); got != n {
			t.Errorf("%d lines: got %d <br> markers in %q", n, got, block)
		}
		if strings.Contains(block, "\n") {
			t.Errorf("%d lines: raw newline left in recipient block %q", n, block)
		}
	}
}

func TestRenderEscapesUserFields(t *testing.T) {
	req, err := Build(Fields{
		Recipient: "<b>The DRM</b>\nA & B",
		Subject:   `<script>alert("x")</script>`,
		Details:   "x",
	}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	out, err := mustRenderer(t, Options{SignatoryName: "<i>Clerk</i>"}).Render(req, "<p>ok</p>")
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(out.Document, "<script>alert") {
		t.Error("subject markup was not escaped")
	}
	if got := region(t, subjectRe, out.Document); !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("subject region = %q", got)
	}
	block := region(t, recipientRe, out.Document)
	if strings.Contains(block, "<b>") || !strings.Contains(block, "&lt;b&gt;") || !strings.Contains(block, "A &amp; B") {
		t.Errorf("recipient block = %q", block)
	}
	if strings.Contains(out.Document, "<i>Clerk</i>") {
		t.Error("signatory name was not escaped")
	}
}

func TestRenderSignature(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "sig.png")
	if err := os.WriteFile(png, append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...), 0644); err != nil {
		t.Fatal(err)
	}
	svg := filepath.Join(dir, "sig.svg")
	if err := os.WriteFile(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="120" height="40"><path d="M0 20 L120 20"/></svg>`), 0644); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "sig.txt")
	if err := os.WriteFile(txt, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	req, err := Build(Fields{Details: "x"}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		path        string
		wantImage   string
		wantMissing bool
	}{
		{name: "png", path: png, wantImage: "image/png"},
		{name: "svg", path: svg, wantImage: "image/svg+xml"},
		{name: "absent", path: filepath.Join(dir, "nope.png"), wantMissing: true},
		{name: "not an image", path: txt, wantMissing: true},
		{name: "not requested", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := mustRenderer(t, Options{SignaturePath: tt.path, SignatoryName: "A. Kumar"}).Render(req, "<p>b</p>")
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if tt.wantImage != "" && !strings.Contains(out.Document, `src="data:`+tt.wantImage+`;base64,`) {
				t.Errorf("no embedded %s image", tt.wantImage)
			}
			if tt.wantImage == "" && strings.Contains(out.Document, "<img") {
				t.Error("broken image reference rendered")
			}
			hasMissing := strings.Contains(out.Document, "(Signature missing)")
			if hasMissing != tt.wantMissing || out.SignatureMissing != tt.wantMissing {
				t.Errorf("missing placeholder = %v (flag %v), want %v", hasMissing, out.SignatureMissing, tt.wantMissing)
			}
			if !strings.Contains(out.Document, "A. Kumar") {
				t.Error("signatory name missing")
			}
		})
	}
}

func TestRenderHeaderOptional(t *testing.T) {
	req, _ := Build(Fields{Details: "x"}, fixedNow)

	out, err := mustRenderer(t, Options{}).Render(req, "<p>b</p>")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.Document, `class="header-center"`) {
		t.Error("header rendered without a header option")
	}

	out, err = mustRenderer(t, Options{Header: "Office of the Sr. DCM"}).Render(req, "<p>b</p>")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Document, `<div class="header-center">Office of the Sr. DCM</div>`) {
		t.Error("header not rendered")
	}
}
