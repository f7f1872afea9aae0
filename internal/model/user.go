// Package model defines the data structures used throughout the application.
package model

// User represents an author account as served by the upstream API.
//
// The upstream owns this resource entirely: users are fetched once at load
// time and are never created or edited by this application. The ID is the
// upstream's numeric identifier and is the key used to join posts to their
// authors.
//
// The upstream payload carries more fields (address, phone, company, ...).
// We only declare the three this application renders; encoding/json ignores
// the rest during decoding.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
