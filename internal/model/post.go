package model

// Post represents a single post as served by the upstream API.
//
// The ID is assigned by the upstream on creation — a freshly built Post has
// ID zero until CreatePost echoes the stored record back. UserID references
// the authoring User.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}
