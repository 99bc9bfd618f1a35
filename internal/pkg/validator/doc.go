// Package validator provides a small validation abstraction for request
// structs. Business code depends on the Validator interface; the
// go-playground/validator v10 implementation lives here.
package validator
