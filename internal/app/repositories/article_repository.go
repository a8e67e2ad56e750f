package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/db"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
)

const articleSelectColumns = "a.id, a.title, a.content, a.cover_image, a.author_id, a.likes, a.comments_count, a.created_at, p.id, p.full_name, p.avatar_url, p.role"

// ArticleRepository handles forum article database operations
type ArticleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	article := &models.Article{Author: &models.Profile{}}
	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &article.CoverImage, &article.AuthorID,
		&article.Likes, &article.CommentsCount, &article.CreatedAt,
		&article.Author.ID, &article.Author.FullName, &article.Author.AvatarURL, &article.Author.Role,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}

// Create inserts a new article
func (r *ArticleRepository) Create(ctx context.Context, article *models.Article) (int64, error) {
	sql, args, err := r.sb.Insert("articles").
		Columns("title", "content", "cover_image", "author_id").
		Values(article.Title, article.Content, article.CoverImage, article.AuthorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create article query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("title", article.Title).Msg("Error executing create article query")
		return 0, fmt.Errorf("error creating article: %w", err)
	}

	return id, nil
}

// GetByID retrieves an article with its author
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	sql, args, err := r.sb.Select(articleSelectColumns).
		From("articles a").
		Join("profiles p ON p.id = a.author_id").
		Where(squirrel.Eq{"a.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get article query: %w", err)
	}

	article, err := scanArticle(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrArticleNotFound
		}
		logger.Error().Err(err).Int64("articleID", id).Msg("Error scanning article row")
		return nil, fmt.Errorf("error getting article by ID: %w", err)
	}

	return article, nil
}

// List retrieves a page of articles with their authors, newest first
func (r *ArticleRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Article, error) {
	sql, args, err := r.sb.Select(articleSelectColumns).
		From("articles a").
		Join("profiles p ON p.id = a.author_id").
		OrderBy("a.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list articles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list articles query")
		return nil, fmt.Errorf("error querying articles: %w", err)
	}
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// Like increments an article's like counter and returns the new value
func (r *ArticleRepository) Like(ctx context.Context, id int64) (int, error) {
	sql, args, err := r.sb.Update("articles").
		Set("likes", squirrel.Expr("likes + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING likes").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build like article query: %w", err)
	}

	var likes int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrArticleNotFound
		}
		return 0, fmt.Errorf("error liking article: %w", err)
	}

	return likes, nil
}

// CreateComment inserts a comment and bumps the article's comment
// counter in one transaction.
func (r *ArticleRepository) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	var commentID int64

	err := db.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("comments").
			Columns("article_id", "author_id", "content").
			Values(comment.ArticleID, comment.AuthorID, comment.Content).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create comment query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&commentID); err != nil {
			return fmt.Errorf("error creating comment: %w", err)
		}

		sql, args, err = r.sb.Update("articles").
			Set("comments_count", squirrel.Expr("comments_count + 1")).
			Where(squirrel.Eq{"id": comment.ArticleID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build comment counter query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error updating comment counter: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrArticleNotFound
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrArticleNotFound) {
			logger.Error().Err(err).Int64("articleID", comment.ArticleID).Msg("Error creating comment")
		}
		return 0, err
	}

	return commentID, nil
}

// ListComments retrieves an article's comments with authors, newest
// first.
func (r *ArticleRepository) ListComments(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.article_id", "c.author_id", "c.content", "c.created_at",
		"p.id", "p.full_name", "p.avatar_url", "p.role",
	).
		From("comments c").
		Join("profiles p ON p.id = c.author_id").
		Where(squirrel.Eq{"c.article_id": articleID}).
		OrderBy("c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("articleID", articleID).Msg("Error executing list comments query")
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c := &models.Comment{Author: &models.Profile{}}
		err := rows.Scan(
			&c.ID, &c.ArticleID, &c.AuthorID, &c.Content, &c.CreatedAt,
			&c.Author.ID, &c.Author.FullName, &c.Author.AvatarURL, &c.Author.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}
