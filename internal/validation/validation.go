// Package validation schema-checks raw submission payloads. Checks here are
// pure functions of the input; rules that depend on persisted state (gating,
// capacity, job activity) live in internal/rules.
package validation

import (
	"net/url"
	"regexp"
	"strings"

	apperrors "ethidata/pkg/errors"
)

// Kind enumerates the four public submission workflows.
type Kind int

const (
	KindContact Kind = iota
	KindApplication
	KindEventRegistration
	KindResourceDownload
)

func (k Kind) String() string {
	switch k {
	case KindContact:
		return "contact"
	case KindApplication:
		return "application"
	case KindEventRegistration:
		return "event_registration"
	case KindResourceDownload:
		return "resource_download"
	}
	return "unknown"
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ContactInput is the raw contact form payload.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ApplicationInput is the raw job application payload (multipart fields; the
// resume file itself is checked by the rule engine, not here).
type ApplicationInput struct {
	JobID       string `json:"jobId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CoverLetter string `json:"coverLetter"`
	LinkedIn    string `json:"linkedIn"`
}

// EventRegistrationInput is the raw event registration payload.
type EventRegistrationInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// ResourceDownloadInput is the raw resource download payload. Whether email is
// mandatory depends on the resource's gating, which the rule engine decides.
type ResourceDownloadInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Normalize trims whitespace and lowercases the email.
func (in *ContactInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
}

// Normalize trims whitespace and lowercases the email.
func (in *ApplicationInput) Normalize() {
	in.JobID = strings.TrimSpace(in.JobID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)
	in.LinkedIn = strings.TrimSpace(in.LinkedIn)
}

// Normalize trims whitespace and lowercases the email.
func (in *EventRegistrationInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Company = strings.TrimSpace(in.Company)
}

// Normalize trims whitespace and lowercases the email.
func (in *ResourceDownloadInput) Normalize() {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
}

// ValidateContact checks the contact form rules and returns every violation.
func ValidateContact(in *ContactInput) []apperrors.FieldError {
	in.Normalize()
	var errs []apperrors.FieldError
	errs = appendMinLen(errs, "name", in.Name, 2, "Name must be at least 2 characters")
	errs = appendEmail(errs, "email", in.Email, true)
	errs = appendMinLen(errs, "subject", in.Subject, 5, "Subject must be at least 5 characters")
	errs = appendMinLen(errs, "message", in.Message, 10, "Message must be at least 10 characters")
	return errs
}

// ValidateApplication checks the job application payload rules.
func ValidateApplication(in *ApplicationInput) []apperrors.FieldError {
	in.Normalize()
	var errs []apperrors.FieldError
	if in.JobID == "" {
		errs = append(errs, apperrors.FieldError{Field: "jobId", Message: "Job ID is required"})
	}
	errs = appendMinLen(errs, "name", in.Name, 2, "Name must be at least 2 characters")
	errs = appendEmail(errs, "email", in.Email, true)
	errs = appendMinLen(errs, "phone", in.Phone, 10, "Phone number must be at least 10 characters")
	if in.LinkedIn != "" && !isURL(in.LinkedIn) {
		errs = append(errs, apperrors.FieldError{Field: "linkedIn", Message: "Invalid LinkedIn URL"})
	}
	return errs
}

// ValidateEventRegistration checks the event registration payload rules.
func ValidateEventRegistration(in *EventRegistrationInput) []apperrors.FieldError {
	in.Normalize()
	var errs []apperrors.FieldError
	errs = appendMinLen(errs, "name", in.Name, 2, "Name must be at least 2 characters")
	errs = appendEmail(errs, "email", in.Email, true)
	return errs
}

// ValidateResourceDownload checks the download payload rules. Both fields are
// optional at this layer; a gated resource's email requirement is persisted
// state and enforced by the rule engine.
func ValidateResourceDownload(in *ResourceDownloadInput) []apperrors.FieldError {
	in.Normalize()
	var errs []apperrors.FieldError
	if in.Email != "" {
		errs = appendEmail(errs, "email", in.Email, false)
	}
	if in.Name != "" {
		errs = appendMinLen(errs, "name", in.Name, 2, "Name must be at least 2 characters")
	}
	return errs
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func appendMinLen(errs []apperrors.FieldError, field, value string, min int, msg string) []apperrors.FieldError {
	if len(value) < min {
		errs = append(errs, apperrors.FieldError{Field: field, Message: msg})
	}
	return errs
}

func appendEmail(errs []apperrors.FieldError, field, value string, required bool) []apperrors.FieldError {
	if value == "" {
		if required {
			errs = append(errs, apperrors.FieldError{Field: field, Message: "Email is required"})
		}
		return errs
	}
	if !emailRegex.MatchString(value) {
		errs = append(errs, apperrors.FieldError{Field: field, Message: "Invalid email address"})
	}
	return errs
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
