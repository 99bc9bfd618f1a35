// Package mail defines the contracts for sending email messages.
//
// The rest of the application works with the Mail interface and the Message
// payload; SMTP is the delivery mechanism implemented here. Gmail and other
// providers that expose SMTP with STARTTLS and PLAIN auth work as is.
package mail
