// Package uid generates identifiers used for request correlation.
package uid

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
