package campaign

import "strings"

// Status is the derived lifecycle state of a contact. It is never stored:
// it is recomputed from the activity log on every run.
type Status string

const (
	StatusNoEmail Status = "NO_EMAIL"
	StatusPending Status = "PENDING"
	StatusDrafted Status = "DRAFTED"
	StatusSent    Status = "SENT"
	StatusErrored Status = "ERRORED"
)

// Contact is one outreach target. Identity is the email address,
// case-insensitively unique within a directory.
type Contact struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	JobTitle  string `json:"job_title"`
	City      string `json:"city"`
	State     string `json:"state"`

	// Stored draft artifact from a previous dry run, if any.
	DraftSubject string `json:"draft_subject,omitempty"`
	DraftBody    string `json:"draft_body,omitempty"`
}

// HasUsableEmail reports whether the contact can be addressed at all.
// Malformed-but-plausible addresses are still usable; validation beyond the
// bare minimum is a UI concern.
func (c *Contact) HasUsableEmail() bool {
	e := strings.TrimSpace(c.Email)
	return e != "" && strings.Contains(e, "@")
}

// FullName returns the contact's display name.
func (c *Contact) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return "Unknown"
	}
	return name
}

// NormalizeEmail lowercases and trims an address. Mail addresses are matched
// case-insensitively everywhere: the log, the directory, and scope lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SenderProfile describes the person on whose behalf emails are generated
// and sent.
type SenderProfile struct {
	Name         string `yaml:"name" json:"name"`
	Email        string `yaml:"email" json:"email"`
	Organization string `yaml:"organization" json:"organization"`
	Role         string `yaml:"role" json:"role"`
	Pitch        string `yaml:"pitch" json:"pitch"`
	Goal         string `yaml:"goal" json:"goal"`
}

// Draft is a generated subject/body pair not yet delivered.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
