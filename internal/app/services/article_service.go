package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/pkg/helpers"
)

// articleStore is the subset of ArticleRepository used by ArticleService
type articleStore interface {
	Create(ctx context.Context, article *models.Article) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.Article, error)
	Like(ctx context.Context, id int64) (int, error)
	CreateComment(ctx context.Context, comment *models.Comment) (int64, error)
	ListComments(ctx context.Context, articleID int64) ([]*models.Comment, error)
}

// ArticleService defines the interface for forum article operations
type ArticleService interface {
	CreateArticle(ctx context.Context, authorID int64, req *dto.CreateArticleRequest) (*models.Article, error)
	GetArticle(ctx context.Context, id int64) (*models.Article, error)
	ListArticles(ctx context.Context, page, size int) ([]*models.Article, error)
	LikeArticle(ctx context.Context, id int64) (int, error)
	AddComment(ctx context.Context, articleID, authorID int64, req *dto.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, articleID int64) ([]*models.Comment, error)
}

// articleServiceImpl implements ArticleService
type articleServiceImpl struct {
	articleRepo articleStore
	logger      zerolog.Logger
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo articleStore, logger zerolog.Logger) ArticleService {
	return &articleServiceImpl{
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// CreateArticle publishes a new article
func (s *articleServiceImpl) CreateArticle(ctx context.Context, authorID int64, req *dto.CreateArticleRequest) (*models.Article, error) {
	article := &models.Article{
		Title:      req.Title,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		AuthorID:   authorID,
	}

	id, err := s.articleRepo.Create(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("error creating article: %w", err)
	}

	s.logger.Info().Int64("articleID", id).Int64("authorID", authorID).Msg("Article published")

	// Re-read to pick up the joined author.
	return s.articleRepo.GetByID(ctx, id)
}

// GetArticle retrieves an article with its author
func (s *articleServiceImpl) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

// ListArticles retrieves a page of articles, newest first
func (s *articleServiceImpl) ListArticles(ctx context.Context, page, size int) ([]*models.Article, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.articleRepo.List(ctx, offset, limit)
}

// LikeArticle increments the like counter and returns the new value
func (s *articleServiceImpl) LikeArticle(ctx context.Context, id int64) (int, error) {
	return s.articleRepo.Like(ctx, id)
}

// AddComment appends a comment to an article
func (s *articleServiceImpl) AddComment(ctx context.Context, articleID, authorID int64, req *dto.CreateCommentRequest) (*models.Comment, error) {
	comment := &models.Comment{
		ArticleID: articleID,
		AuthorID:  authorID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	id, err := s.articleRepo.CreateComment(ctx, comment)
	if err != nil {
		return nil, err
	}
	comment.ID = id

	return comment, nil
}

// ListComments retrieves an article's comments, newest first
func (s *articleServiceImpl) ListComments(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.articleRepo.ListComments(ctx, articleID)
}
