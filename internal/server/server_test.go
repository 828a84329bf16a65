package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sant0-9/railletter/internal/letter"
	"github.com/sant0-9/railletter/internal/llm"
	"github.com/sant0-9/railletter/internal/pipeline"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = &bytes.Buffer{}
	os.Exit(m.Run())
}

type stubProvider struct {
	content string
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Ping(context.Context) error { return nil }

func (s *stubProvider) Complete(context.Context, *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func newTestServer(t *testing.T, p *stubProvider) http.Handler {
	t.Helper()
	r, err := letter.NewRenderer(letter.Options{Header: "Official Letter"})
	if err != nil {
		t.Fatal(err)
	}
	pl := pipeline.New(p, "m", r, pipeline.WithLogger(nil))
	srv, err := New(pl, p.Name())
	if err != nil {
		t.Fatal(err)
	}
	srv.now = func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }
	return srv.Routes()
}

func postForm(h http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, &stubProvider{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`value="2024-01-15"`, "The DRM,\nCentral Railway,\nNagpur Division.", "Generate Letter"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestFormSubmit(t *testing.T) {
	p := &stubProvider{content: "<p>Respected Sir, ...</p>"}
	h := newTestServer(t, p)

	rec := postForm(h, url.Values{
		"date":      {"2024-01-15"},
		"recipient": {"The DRM,\nCentral Railway."},
		"subject":   {"Leave Request"},
		"details":   {"Request 5 days casual leave from 20-01-2024."},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<div class="subject-line">Sub: Leave Request</div>`,
		"<strong>Date:</strong> 15-01-2024",
		`<div class="letter-body"><p>Respected Sir, ...</p></div>`,
		"Letter generated successfully!",
		"@media print",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response missing %q", want)
		}
	}
	if p.calls != 1 {
		t.Errorf("backend called %d times", p.calls)
	}
}

func TestFormSubmitEmptyDetails(t *testing.T) {
	p := &stubProvider{content: "<p>x</p>"}
	h := newTestServer(t, p)

	rec := postForm(h, url.Values{"subject": {"Leave Request"}, "details": {"   "}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please enter details for the letter.") {
		t.Error("warning not shown")
	}
	if p.calls != 0 {
		t.Errorf("backend called %d times, want 0", p.calls)
	}
}

func TestFormSubmitBackendError(t *testing.T) {
	p := &stubProvider{err: errors.New("Authentication Fails (auth header format should be Bearer sk-...)")}
	h := newTestServer(t, p)

	rec := postForm(h, url.Values{"details": {"leave"}})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "An error occurred: Authentication Fails (auth header format should be Bearer sk-...)") {
		t.Errorf("error text not shown verbatim:\n%s", body)
	}
	if strings.Contains(body, `class="a4-container"`) {
		t.Error("letter rendered despite backend error")
	}
}

func TestFormSubmitBadDate(t *testing.T) {
	p := &stubProvider{content: "<p>x</p>"}
	h := newTestServer(t, p)

	rec := postForm(h, url.Values{"date": {"15/01/2024"}, "details": {"leave"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if p.calls != 0 {
		t.Errorf("backend called %d times, want 0", p.calls)
	}
}

func TestAPICreateLetter(t *testing.T) {
	tests := []struct {
		name       string
		provider   *stubProvider
		body       string
		wantStatus int
	}{
		{
			name:       "ok",
			provider:   &stubProvider{content: "<p>Respected Sir,</p>"},
			body:       `{"date":"2024-01-15","recipient":"The DRM","subject":"Leave Request","details":"leave"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			provider:   &stubProvider{},
			body:       `{"details":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing details",
			provider:   &stubProvider{},
			body:       `{"subject":"Leave Request"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "backend failure",
			provider:   &stubProvider{err: errors.New("connection refused")},
			body:       `{"details":"leave"}`,
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, tt.provider)
			req := httptest.NewRequest(http.MethodPost, "/api/letters", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantStatus != http.StatusOK {
				var e map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil || e["error"] == "" {
					t.Errorf("error body = %s", rec.Body)
				}
				return
			}

			var resp letterResp
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.ID == "" || resp.Date != "15-01-2024" || resp.Subject != "Leave Request" {
				t.Errorf("resp = %+v", resp)
			}
			if !strings.Contains(resp.HTML, "<p>Respected Sir,</p>") || !strings.HasPrefix(resp.HTML, "<!DOCTYPE html>") {
				t.Errorf("html = %.80q", resp.HTML)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, &stubProvider{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body)
	}
}
