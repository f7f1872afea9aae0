package model

import "time"

// Session records which user a browser session acts as.
//
// There is no real authentication here: the acting user is picked at random
// from the fetched user set on first visit and merely gives newly created
// posts a plausible author. The token lives in a session cookie (no Max-Age),
// so the browser forgets it when the session ends; the store side is
// in-memory by default and forgets it when the process exits.
type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// User rebuilds the User value the session was created from.
func (s *Session) User() User {
	return User{ID: s.UserID, Name: s.Name, Email: s.Email}
}
