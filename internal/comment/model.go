package comment

import "time"

// Creator is the slice of the user record embedded in comment responses.
type Creator struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Comment belongs to a post and is owned by its creator; only the creator
// may delete it. Comments are always queried by post_id, there is no
// back-reference list on the post to keep consistent.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Text      string    `json:"text"`
	Creator   Creator   `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
}

// Owner implements guard.Owned.
func (c *Comment) Owner() string {
	return c.Creator.ID
}
