package models

import "time"

// Article represents a forum/news article written by a club member
type Article struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	CoverImage    *string   `json:"coverImage,omitempty" db:"cover_image"`
	AuthorID      int64     `json:"authorId" db:"author_id"`
	Likes         int       `json:"likes" db:"likes"`
	CommentsCount int       `json:"commentsCount" db:"comments_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author *Profile `json:"author,omitempty"`
}

// Comment references an article and an author, listed newest first
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	ArticleID int64     `json:"articleId" db:"article_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author *Profile `json:"author,omitempty"`
}
