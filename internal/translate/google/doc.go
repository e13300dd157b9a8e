// Package google implements translate.Client on top of the Google Cloud
// Translation v2 REST API.
package google
