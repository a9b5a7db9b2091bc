package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field length bounds, applied identically on the client and the server.
// Lengths count characters, not bytes.
const (
	NameMinLen    = 2
	NameMaxLen    = 100
	EmailMinLen   = 5
	EmailMaxLen   = 254
	CompanyMaxLen = 100
	MessageMinLen = 10
	MessageMaxLen = 2000
)

// Single @, dotted domain, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fields is one submission candidate as entered, before or after sanitization.
type Fields struct {
	Name        string
	Email       string
	Company     string
	ServiceType string
	BudgetRange string
	Message     string
	TimeFrame   string
}

// FieldError names the first rule a field violates.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Sanitize trims whitespace, strips angle brackets and control characters so
// values can never carry markup or header breaks downstream, truncates to the
// validation maxima and lower-cases the email address. The message keeps its
// line structure; every other field is single-line.
func Sanitize(f Fields) Fields {
	return Fields{
		Name:        truncate(sanitizeLine(f.Name), NameMaxLen),
		Email:       strings.ToLower(truncate(sanitizeLine(f.Email), EmailMaxLen)),
		Company:     truncate(sanitizeLine(f.Company), CompanyMaxLen),
		ServiceType: sanitizeLine(f.ServiceType),
		BudgetRange: sanitizeLine(f.BudgetRange),
		Message:     truncate(sanitizeBlock(f.Message), MessageMaxLen),
		TimeFrame:   sanitizeLine(f.TimeFrame),
	}
}

// Validate applies the shared field rules to trimmed values and returns one
// error per violated field, in canonical field order (name, email, message).
// An empty result means the candidate is valid.
func Validate(f Fields) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(f.Name)
	if n := utf8.RuneCountInString(name); n < NameMinLen || n > NameMaxLen {
		errs = append(errs, FieldError{
			Field:   "name",
			Message: "Name must be between 2 and 100 characters",
		})
	}

	email := strings.TrimSpace(f.Email)
	if n := utf8.RuneCountInString(email); n < EmailMinLen || n > EmailMaxLen || !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{
			Field:   "email",
			Message: "Valid email address is required",
		})
	}

	message := strings.TrimSpace(f.Message)
	if n := utf8.RuneCountInString(message); n < MessageMinLen || n > MessageMaxLen {
		errs = append(errs, FieldError{
			Field:   "message",
			Message: "Project description must be between 10 and 2000 characters",
		})
	}

	return errs
}

// sanitizeLine is for single-line fields: no markup, no control characters.
func sanitizeLine(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// sanitizeBlock keeps newlines and tabs so the message preserves its line
// structure, but drops markup and every other control character.
func sanitizeBlock(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == '<' || r == '>' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// truncate cuts to max characters on a rune boundary.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
