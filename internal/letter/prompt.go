package letter

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed system.md
var systemInstruction string

// Prompt is the system/user pair sent to the generation backend.
type Prompt struct {
	System string
	User   string
}

// SystemInstruction returns the fixed instruction every letter is written under.
func SystemInstruction() string {
	return strings.TrimSpace(systemInstruction)
}

// Prompt interpolates the request fields as plain text.
func (r Request) Prompt() Prompt {
	var b strings.Builder
	b.WriteString("Details for the letter:\n")
	fmt.Fprintf(&b, "Date: %s\n", r.FormattedDate())
	fmt.Fprintf(&b, "To: %s\n", r.Recipient)
	fmt.Fprintf(&b, "Subject: %s\n", r.Subject)
	fmt.Fprintf(&b, "Details: %s\n", r.Details)
	b.WriteString("\nKeep the tone professional, polite, and formal.")

	return Prompt{
		System: SystemInstruction(),
		User:   b.String(),
	}
}
