package email

import "context"

// Message is one outbound HTML email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
	// Configured reports whether delivery credentials are present. When
	// false, callers skip notification entirely.
	Configured() bool
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) error {
	return nil
}

func (p *NoOpProvider) Configured() bool {
	return false
}
