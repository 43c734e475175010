package blogpulse

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Email is unique at the store level; the constraint,
// not the caller's lookup, is what keeps concurrent signups from colliding.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PostPreviewLength is how much post content the list endpoint returns.
const PostPreviewLength = 300

// Post is the blog post model
type Post struct {
	bun.BaseModel `bun:"table:blog_posts,alias:post"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Content       string    `bun:"content,notnull" json:"content"`
	Author        string    `bun:"author,notnull" json:"author"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Preview returns a copy with content truncated to PostPreviewLength runes.
// Truncated previews get a trailing ellipsis so clients can render them as-is.
func (p Post) Preview() Post {
	runes := []rune(p.Content)
	if len(runes) > PostPreviewLength {
		p.Content = string(runes[:PostPreviewLength]) + "..."
	}
	return p
}
