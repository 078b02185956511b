package email

import (
	"context"
	"net/mail"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

func (a Address) IsZero() bool {
	return a.Email == ""
}

// String formats the address for a header, e.g. "Noah <noah@example.com>".
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Message is one outgoing email. A new value is built for every send.
type Message struct {
	From    Address
	To      Address
	ReplyTo Address
	Subject string
	HTML    string
	Text    string
}

// Transport delivers a rendered message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
