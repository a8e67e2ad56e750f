package dto

// CreateArticleRequest is the payload for publishing a forum article
type CreateArticleRequest struct {
	Title      string  `json:"title" binding:"required,max=200"`
	Content    string  `json:"content" binding:"required"`
	CoverImage *string `json:"coverImage,omitempty" binding:"omitempty,url"`
}

// CreateCommentRequest adds a comment to an article
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}
