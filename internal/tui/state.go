package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sant0-9/railletter/internal/config"
	"github.com/sant0-9/railletter/internal/letter"
	"github.com/sant0-9/railletter/internal/llm"
	"github.com/sant0-9/railletter/internal/pipeline"
)

// Form field order for focus cycling.
const (
	fieldDate = iota
	fieldRecipient
	fieldSubject
	fieldDetails
	fieldCount
)

type state struct {
	// Config
	config     *config.Config
	needsSetup bool

	// Setup wizard state
	setupStep        int
	selectedProvider int
	apiKeyInput      textinput.Model
	setupError       error

	// Form
	dateInput      textinput.Model
	recipientInput textarea.Model
	subjectInput   textinput.Model
	detailsInput   textarea.Model
	focus          int
	formWarning    string

	// Processing
	processing      bool
	spinner         spinner.Model
	progress        *pipeline.Progress
	processingStart time.Time
	lastFields      letter.Fields

	// Result
	result    *pipeline.Result
	preview   viewport.Model
	savedPath string
	saveError error

	// Errors
	processingError error

	// Provider
	pipeline      *pipeline.Pipeline
	provider      llm.Provider
	providerName  string
	providerReady bool
	providerError error
}

func newState() *state {
	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	date := textinput.New()
	date.Placeholder = "dd-mm-yyyy"
	date.CharLimit = 10
	date.Width = 12
	date.SetValue(time.Now().Format(letter.DateLayout))

	recipient := textarea.New()
	recipient.Placeholder = "To (recipient details)"
	recipient.ShowLineNumbers = false
	recipient.SetWidth(60)
	recipient.SetHeight(3)
	recipient.SetValue("The DRM,\nCentral Railway,\nNagpur Division.")

	subject := textinput.New()
	subject.Placeholder = "Request for..."
	subject.CharLimit = 200
	subject.Width = 58

	details := textarea.New()
	details.Placeholder = "Letter details (points)..."
	details.ShowLineNumbers = false
	details.CharLimit = 4000
	details.SetWidth(60)
	details.SetHeight(6)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	return &state{
		apiKeyInput:    apiKey,
		dateInput:      date,
		recipientInput: recipient,
		subjectInput:   subject,
		detailsInput:   details,
		spinner:        sp,
		preview:        viewport.New(70, 20),
	}
}
