package model

// Card is the denormalized join of one Post with its authoring User — the
// unit the wall actually renders.
//
// Cards are client-local: the upstream API knows nothing about them. A card
// has no identity of its own beyond PostID, and it is only as fresh as the
// last local mutation — if the post or user changes upstream after the
// initial load, the card goes stale silently (the upstream is never
// re-fetched and never pushes).
type Card struct {
	UserID int    `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	PostID int    `json:"postId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// NewCard joins a post with its author.
// Callers are responsible for having matched user.ID to post.UserID.
func NewCard(user User, post Post) Card {
	return Card{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		PostID: post.ID,
		Title:  post.Title,
		Body:   post.Body,
	}
}
