// Package service contains the business logic layer.
//
// Handlers parse HTTP and delegate here; services validate, enforce ownership
// and hierarchy rules, and orchestrate the repositories. Services return
// apperror values — never HTTP status codes — and take the authenticated
// user's ID explicitly on every call rather than reading ambient state.
package service

import "github.com/rs/xid"

// validID reports whether s is a syntactically well-formed entity id.
// Malformed ids are rejected before any query runs, so "GET /topics/garbage"
// is a 400, not a table scan that happens to find nothing.
func validID(s string) bool {
	_, err := xid.FromString(s)
	return err == nil
}
