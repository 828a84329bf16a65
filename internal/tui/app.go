package tui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sant0-9/railletter/internal/config"
	"github.com/sant0-9/railletter/internal/letter"
	"github.com/sant0-9/railletter/internal/llm"
	"github.com/sant0-9/railletter/internal/pipeline"
	"github.com/sant0-9/railletter/internal/writer"
)

type view int

const (
	viewSetup view = iota
	viewForm
	viewProcessing
	viewResult
	viewError
	viewSettings
	viewHelp
)

type App struct {
	width    int
	height   int
	view     view
	prevView view
	state    *state
	writer   *writer.Writer
	logger   *log.Logger
	program  *tea.Program
	quitting bool
}

// NewApp builds the terminal app around a loaded config. A config whose only
// problem is a missing API key starts in the setup wizard.
func NewApp(cfg *config.Config, w *writer.Writer, logger *log.Logger) *App {
	s := newState()
	s.config = cfg

	if err := cfg.Validate(); errors.Is(err, config.ErrMissingAPIKey) {
		s.needsSetup = true
		for i, p := range config.Providers {
			if p.ID == cfg.Provider {
				s.selectedProvider = i
			}
		}
	}

	if logger == nil {
		logger = log.Default()
	}

	return &App{
		view:   viewForm,
		state:  s,
		writer: w,
		logger: logger,
	}
}

// SetProgram gives the app a handle for sending progress from running
// submissions.
func (a *App) SetProgram(p *tea.Program) {
	a.program = p
}

func (a *App) Init() tea.Cmd {
	if a.state.needsSetup {
		a.view = viewSetup
		return tea.Batch(tea.WindowSize(), textinput.Blink)
	}

	if err := a.connect(); err != nil {
		a.state.processingError = err
		a.view = viewError
		return tea.WindowSize()
	}

	return tea.Batch(
		tea.WindowSize(),
		textarea.Blink,
		a.focusField(fieldDetails),
		a.testProvider(),
	)
}

// connect builds the provider and pipeline from the current config.
func (a *App) connect() error {
	cfg := a.state.config
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return err
	}
	renderer, err := letter.NewRenderer(letter.Options{
		Header:         cfg.Letter.Header,
		SignatoryName:  cfg.Letter.SignatoryName,
		SignatoryTitle: cfg.Letter.SignatoryTitle,
		SignaturePath:  cfg.Letter.SignaturePath,
	})
	if err != nil {
		return err
	}

	a.state.providerName = provider.Name()
	a.state.pipeline = pipeline.New(provider, cfg.ResolvedModel(), renderer,
		pipeline.WithLogger(a.logger),
		pipeline.WithProgress(a.sendProgress),
	)
	a.state.provider = provider
	return nil
}

func (a *App) sendProgress(p pipeline.Progress) {
	if a.program != nil {
		a.program.Send(progressMsg(p))
	}
}

func (a *App) testProvider() tea.Cmd {
	provider := a.state.provider
	return func() tea.Msg {
		if provider == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := provider.Ping(ctx); err != nil {
			return providerErrorMsg{err}
		}
		return providerReadyMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := a.handleKey(msg)
		if handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case setupCompleteMsg:
		a.state.needsSetup = false
		a.state.setupError = nil
		if err := a.connect(); err != nil {
			a.state.processingError = err
			a.view = viewError
			return a, nil
		}
		a.view = viewForm
		return a, tea.Batch(a.focusField(fieldDetails), a.testProvider())

	case setupErrorMsg:
		a.state.setupError = msg.error
		return a, nil

	case providerReadyMsg:
		a.state.providerReady = true
		a.state.providerError = nil
		return a, nil

	case providerErrorMsg:
		a.state.providerError = msg.error
		return a, nil

	case progressMsg:
		p := pipeline.Progress(msg)
		a.state.progress = &p
		return a, nil

	case letterReadyMsg:
		a.state.processing = false
		a.state.result = msg.result
		a.state.savedPath = ""
		a.state.saveError = nil
		a.state.preview.SetContent(writer.Preview(string(msg.result.Letter.Fragment)))
		a.state.preview.GotoTop()
		a.view = viewResult
		return a, nil

	case letterErrorMsg:
		a.state.processing = false
		if letter.IsValidation(msg.error) {
			a.state.formWarning = validationMessage(msg.error)
			a.view = viewForm
			return a, a.focusField(a.state.focus)
		}
		a.state.processingError = msg.error
		a.view = viewError
		return a, nil

	case spinner.TickMsg:
		if !a.state.processing {
			return a, nil
		}
		var cmd tea.Cmd
		a.state.spinner, cmd = a.state.spinner.Update(msg)
		return a, cmd
	}

	// Forward remaining messages to whatever has focus in the current view
	switch a.view {
	case viewSetup:
		if a.state.setupStep == 1 {
			var cmd tea.Cmd
			a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	case viewForm:
		cmds = append(cmds, a.updateFormInput(msg))
	case viewResult:
		var cmd tea.Cmd
		a.state.preview, cmd = a.state.preview.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKey deals with keys the current view owns. Unhandled keys fall
// through to the focused input.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit, true
	}

	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg), true

	case viewForm:
		switch {
		case key.Matches(msg, keys.Quit):
			a.quitting = true
			return tea.Quit, true
		case key.Matches(msg, keys.Help):
			a.openOverlay(viewHelp)
			return nil, true
		case key.Matches(msg, keys.Settings):
			a.openOverlay(viewSettings)
			return nil, true
		case key.Matches(msg, keys.Tab):
			return a.focusField((a.state.focus + 1) % fieldCount), true
		case key.Matches(msg, keys.BackTab):
			return a.focusField((a.state.focus + fieldCount - 1) % fieldCount), true
		case key.Matches(msg, keys.Submit):
			return a.submit(), true
		}
		return nil, false

	case viewProcessing:
		// One call, no cancellation: only ctrl+c leaves this view.
		return nil, true

	case viewResult:
		switch {
		case key.Matches(msg, keys.Quit):
			a.quitting = true
			return tea.Quit, true
		case key.Matches(msg, keys.Save):
			a.saveResult()
			return nil, true
		case key.Matches(msg, keys.New):
			a.view = viewForm
			return a.focusField(fieldDetails), true
		case key.Matches(msg, keys.Help):
			a.openOverlay(viewHelp)
			return nil, true
		}
		return nil, false

	case viewError:
		switch {
		case key.Matches(msg, keys.Quit):
			a.quitting = true
			return tea.Quit, true
		case key.Matches(msg, keys.Retry):
			if a.state.pipeline == nil {
				return nil, true
			}
			return a.start(a.state.lastFields), true
		case key.Matches(msg, keys.New):
			if a.state.pipeline == nil {
				return nil, true
			}
			a.view = viewForm
			return a.focusField(a.state.focus), true
		case key.Matches(msg, keys.Settings):
			a.openOverlay(viewSettings)
			return nil, true
		}
		return nil, true

	case viewHelp, viewSettings:
		if key.Matches(msg, keys.Quit) || key.Matches(msg, keys.Help) || key.Matches(msg, keys.Settings) {
			a.view = a.prevView
		}
		return nil, true
	}

	return nil, false
}

func (a *App) openOverlay(v view) {
	a.prevView = a.view
	a.view = v
}

func (a *App) handleSetupKey(msg tea.KeyMsg) tea.Cmd {
	switch a.state.setupStep {
	case 0: // Provider selection
		switch {
		case key.Matches(msg, keys.Quit):
			a.quitting = true
			return tea.Quit
		case key.Matches(msg, keys.Up):
			if a.state.selectedProvider > 0 {
				a.state.selectedProvider--
			}
		case key.Matches(msg, keys.Down):
			if a.state.selectedProvider < len(config.Providers)-1 {
				a.state.selectedProvider++
			}
		case key.Matches(msg, keys.Enter):
			provider := config.Providers[a.state.selectedProvider]
			a.state.config.Provider = provider.ID
			a.state.config.Model = provider.DefaultModel

			if provider.NeedsAPIKey {
				a.state.setupStep = 1
				return a.state.apiKeyInput.Focus()
			}
			return a.finishSetup()
		}

	case 1: // API key entry
		switch {
		case key.Matches(msg, keys.Quit):
			// Go back to provider selection
			a.state.setupStep = 0
			a.state.apiKeyInput.Reset()
			a.state.apiKeyInput.Blur()
			return nil
		case key.Matches(msg, keys.Enter):
			apiKey := strings.TrimSpace(a.state.apiKeyInput.Value())
			if apiKey == "" {
				a.state.setupError = config.ErrMissingAPIKey
				return nil
			}
			a.state.config.APIKey = apiKey
			return a.finishSetup()
		default:
			var cmd tea.Cmd
			a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
			return cmd
		}
	}

	return nil
}

func (a *App) finishSetup() tea.Cmd {
	cfg := a.state.config
	return func() tea.Msg {
		if err := cfg.Save(); err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

// focusField moves focus to field i and blurs the rest.
func (a *App) focusField(i int) tea.Cmd {
	s := a.state
	s.focus = i
	s.dateInput.Blur()
	s.recipientInput.Blur()
	s.subjectInput.Blur()
	s.detailsInput.Blur()

	switch i {
	case fieldDate:
		return s.dateInput.Focus()
	case fieldRecipient:
		return s.recipientInput.Focus()
	case fieldSubject:
		return s.subjectInput.Focus()
	default:
		return s.detailsInput.Focus()
	}
}

func (a *App) updateFormInput(msg tea.Msg) tea.Cmd {
	s := a.state
	var cmd tea.Cmd
	switch s.focus {
	case fieldDate:
		s.dateInput, cmd = s.dateInput.Update(msg)
	case fieldRecipient:
		s.recipientInput, cmd = s.recipientInput.Update(msg)
	case fieldSubject:
		s.subjectInput, cmd = s.subjectInput.Update(msg)
	case fieldDetails:
		s.detailsInput, cmd = s.detailsInput.Update(msg)
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		s.formWarning = ""
	}
	return cmd
}

// formFields reads the form. Date parsing is the only check done here;
// everything else is validated by the letter builder.
func (a *App) formFields() (letter.Fields, error) {
	s := a.state
	f := letter.Fields{
		Recipient: s.recipientInput.Value(),
		Subject:   s.subjectInput.Value(),
		Details:   s.detailsInput.Value(),
	}
	if v := strings.TrimSpace(s.dateInput.Value()); v != "" {
		d, err := time.ParseInLocation(letter.DateLayout, v, time.Local)
		if err != nil {
			return letter.Fields{}, &letter.ValidationError{Field: "date", Err: errors.New("use dd-mm-yyyy")}
		}
		f.Date = d
	}
	return f, nil
}

func (a *App) submit() tea.Cmd {
	fields, err := a.formFields()
	if err != nil {
		a.state.formWarning = validationMessage(err)
		return nil
	}
	if _, err := letter.Build(fields, time.Now); err != nil {
		a.state.formWarning = validationMessage(err)
		return nil
	}
	if a.state.pipeline == nil {
		a.state.formWarning = "No generation backend configured."
		return nil
	}
	return a.start(fields)
}

// start runs one submission in the background. Each call is a single
// pipeline run; there is no automatic retry.
func (a *App) start(fields letter.Fields) tea.Cmd {
	a.state.lastFields = fields
	a.state.formWarning = ""
	a.state.processing = true
	a.state.processingError = nil
	a.state.progress = nil
	a.state.processingStart = time.Now()
	a.view = viewProcessing

	pl := a.state.pipeline
	run := func() tea.Msg {
		res, err := pl.Submit(context.Background(), fields)
		if err != nil {
			return letterErrorMsg{err}
		}
		return letterReadyMsg{res}
	}
	return tea.Batch(a.state.spinner.Tick, run)
}

func (a *App) saveResult() {
	if a.state.result == nil || a.writer == nil {
		return
	}
	path, err := a.writer.Save(a.state.result.Letter)
	a.state.savedPath = path
	a.state.saveError = err
	if err != nil {
		a.logger.Printf("[tui] save failed: %v", err)
	}
}

func (a *App) resize() {
	boxWidth := min(72, a.width-4)
	if boxWidth < 20 {
		boxWidth = 20
	}
	s := a.state
	s.dateInput.Width = 12
	s.subjectInput.Width = boxWidth - 6
	s.recipientInput.SetWidth(boxWidth - 4)
	s.detailsInput.SetWidth(boxWidth - 4)

	s.preview.Width = boxWidth - 4
	s.preview.Height = max(5, a.height-12)
}

func validationMessage(err error) string {
	if errors.Is(err, letter.ErrEmptyDetails) {
		return "Please enter details for the letter."
	}
	var v *letter.ValidationError
	if errors.As(err, &v) && v.Field == "date" {
		return "Date must be dd-mm-yyyy."
	}
	return err.Error()
}

type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }
type providerReadyMsg struct{}
type providerErrorMsg struct{ error }
type progressMsg pipeline.Progress
type letterReadyMsg struct{ result *pipeline.Result }
type letterErrorMsg struct{ error }

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewForm:
		return a.renderForm()
	case viewProcessing:
		return a.renderProcessing()
	case viewResult:
		return a.renderResult()
	case viewError:
		return a.renderError()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	default:
		return a.renderForm()
	}
}
