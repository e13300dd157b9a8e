// Package translate defines the client used to detect and translate the
// language of texts, and the classification of its errors into transient
// failures and malformed responses.
package translate
