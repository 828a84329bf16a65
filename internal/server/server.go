package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sant0-9/railletter/internal/letter"
	"github.com/sant0-9/railletter/internal/pipeline"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const dateInputLayout = "2006-01-02"

// Submitter runs one letter submission.
type Submitter interface {
	Submit(ctx context.Context, fields letter.Fields) (*pipeline.Result, error)
}

type Server struct {
	submitter Submitter
	provider  string
	now       func() time.Time
	tmpl      *template.Template
}

func New(submitter Submitter, providerName string) (*Server, error) {
	if submitter == nil {
		return nil, errors.New("letter pipeline required")
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Server{
		submitter: submitter,
		provider:  providerName,
		now:       time.Now,
		tmpl:      tmpl,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(s.tmpl)

	r.GET("/", s.handleIndex)
	r.POST("/", s.handleFormSubmit)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/letters", s.handleCreateLetter)

	return r
}

// --- Form page ---

type pageView struct {
	Date      string
	Recipient string
	Subject   string
	Details   string
	Warning   string
	Error     string
	Letter    template.HTML
	Provider  string
}

func (s *Server) defaultPage() pageView {
	return pageView{
		Date:      s.now().Format(dateInputLayout),
		Recipient: "The DRM,\nCentral Railway,\nNagpur Division.",
		Subject:   "Request for...",
		Details:   "Please write a letter regarding my leave application...",
		Provider:  s.provider,
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html.tmpl", s.defaultPage())
}

func (s *Server) handleFormSubmit(c *gin.Context) {
	view := pageView{
		Date:      c.PostForm("date"),
		Recipient: c.PostForm("recipient"),
		Subject:   c.PostForm("subject"),
		Details:   c.PostForm("details"),
		Provider:  s.provider,
	}

	fields, err := parseFields(view.Date, view.Recipient, view.Subject, view.Details)
	if err != nil {
		view.Warning = err.Error()
		c.HTML(http.StatusUnprocessableEntity, "index.html.tmpl", view)
		return
	}

	res, err := s.submitter.Submit(c.Request.Context(), fields)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusUnprocessableEntity {
			view.Warning = warningFor(err)
		} else {
			view.Error = err.Error()
		}
		c.HTML(status, "index.html.tmpl", view)
		return
	}

	view.Letter = res.Letter.Fragment
	c.HTML(http.StatusOK, "index.html.tmpl", view)
}

// --- JSON API ---

type createLetterReq struct {
	Date      string `json:"date"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Details   string `json:"details"`
}

type letterResp struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (s *Server) handleCreateLetter(c *gin.Context) {
	var req createLetterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := parseFields(req.Date, req.Recipient, req.Subject, req.Details)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	res, err := s.submitter.Submit(c.Request.Context(), fields)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, letterResp{
		ID:      res.Letter.ID,
		Date:    res.Request.FormattedDate(),
		Subject: res.Letter.Subject,
		HTML:    res.Letter.Document,
	})
}

// --- Helpers ---

func parseFields(date, recipient, subject, details string) (letter.Fields, error) {
	f := letter.Fields{
		Recipient: recipient,
		Subject:   subject,
		Details:   details,
	}
	if d := strings.TrimSpace(date); d != "" {
		t, err := time.Parse(dateInputLayout, d)
		if err != nil {
			return letter.Fields{}, &letter.ValidationError{Field: "date", Err: errors.New("use YYYY-MM-DD")}
		}
		f.Date = t
	}
	return f, nil
}

func statusFor(err error) int {
	switch {
	case letter.IsValidation(err):
		return http.StatusUnprocessableEntity
	case letter.IsBackend(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func warningFor(err error) string {
	if errors.Is(err, letter.ErrEmptyDetails) {
		return "Please enter details for the letter."
	}
	return err.Error()
}
