package letter

import (
	"strings"
	"time"
)

// DateLayout is day-month-year, the format official letters carry.
const DateLayout = "02-01-2006"

// Fields are the raw values a form hands over.
type Fields struct {
	Date      time.Time
	Recipient string
	Subject   string
	Details   string
}

// Request is a validated letter request. Build it with Build and pass it by
// value; nothing mutates it after construction.
type Request struct {
	Date      time.Time
	Recipient string
	Subject   string
	Details   string
}

// Build validates raw fields. A zero date becomes now().
func Build(f Fields, now func() time.Time) (Request, error) {
	details := strings.TrimSpace(f.Details)
	if details == "" {
		return Request{}, &ValidationError{Field: "details", Err: ErrEmptyDetails}
	}

	date := f.Date
	if date.IsZero() {
		if now == nil {
			now = time.Now
		}
		date = now()
	}

	return Request{
		Date:      date,
		Recipient: normalizeNewlines(strings.TrimSpace(f.Recipient)),
		Subject:   strings.TrimSpace(f.Subject),
		Details:   normalizeNewlines(details),
	}, nil
}

// FormattedDate renders the date as dd-mm-yyyy.
func (r Request) FormattedDate() string {
	return r.Date.Format(DateLayout)
}

// RecipientLines splits the recipient block on line breaks.
func (r Request) RecipientLines() []string {
	if r.Recipient == "" {
		return nil
	}
	return strings.Split(r.Recipient, "\n")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
