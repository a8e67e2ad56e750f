package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
)

type fakeArticleStore struct {
	articles []*models.Article
	comments []*models.Comment
	nextID   int64
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{nextID: 1}
}

func (f *fakeArticleStore) Create(_ context.Context, article *models.Article) (int64, error) {
	article.ID = f.nextID
	f.nextID++
	article.Author = &models.Profile{ID: article.AuthorID, FullName: "Sophie Martin"}
	// Newest first, like the real query ordering
	f.articles = append([]*models.Article{article}, f.articles...)
	return article.ID, nil
}

func (f *fakeArticleStore) GetByID(_ context.Context, id int64) (*models.Article, error) {
	for _, a := range f.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.ErrArticleNotFound
}

func (f *fakeArticleStore) List(_ context.Context, offset uint64, limit int) ([]*models.Article, error) {
	if int(offset) >= len(f.articles) {
		return []*models.Article{}, nil
	}
	end := int(offset) + limit
	if end > len(f.articles) {
		end = len(f.articles)
	}
	return f.articles[offset:end], nil
}

func (f *fakeArticleStore) Like(_ context.Context, id int64) (int, error) {
	a, err := f.GetByID(context.Background(), id)
	if err != nil {
		return 0, err
	}
	a.Likes++
	return a.Likes, nil
}

func (f *fakeArticleStore) CreateComment(_ context.Context, comment *models.Comment) (int64, error) {
	a, err := f.GetByID(context.Background(), comment.ArticleID)
	if err != nil {
		return 0, err
	}
	comment.ID = f.nextID
	f.nextID++
	f.comments = append([]*models.Comment{comment}, f.comments...)
	a.CommentsCount++
	return comment.ID, nil
}

func (f *fakeArticleStore) ListComments(_ context.Context, articleID int64) ([]*models.Comment, error) {
	out := []*models.Comment{}
	for _, c := range f.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestArticleService(store *fakeArticleStore) ArticleService {
	return NewArticleService(store, zerolog.Nop())
}

func TestCreateArticleAttachesAuthor(t *testing.T) {
	store := newFakeArticleStore()
	svc := newTestArticleService(store)

	article, err := svc.CreateArticle(context.Background(), 7, &dto.CreateArticleRequest{
		Title:   "Résultats du championnat",
		Content: "Bravo à tous les nageurs !",
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if article.ID == 0 {
		t.Fatal("expected a persisted article ID")
	}
	if article.Author == nil || article.Author.ID != 7 {
		t.Fatalf("expected the joined author, got %+v", article.Author)
	}
}

func TestListArticlesPaginates(t *testing.T) {
	store := newFakeArticleStore()
	svc := newTestArticleService(store)

	for _, title := range []string{"premier", "deuxième", "troisième"} {
		if _, err := svc.CreateArticle(context.Background(), 1, &dto.CreateArticleRequest{Title: title, Content: "..."}); err != nil {
			t.Fatalf("CreateArticle %q: %v", title, err)
		}
	}

	page1, err := svc.ListArticles(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("ListArticles page 1: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("expected 2 articles on page 1, got %d", len(page1))
	}
	if page1[0].Title != "troisième" {
		t.Fatalf("expected newest article first, got %q", page1[0].Title)
	}

	page2, err := svc.ListArticles(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("ListArticles page 2: %v", err)
	}
	if len(page2) != 1 || page2[0].Title != "premier" {
		t.Fatalf("expected the oldest article alone on page 2, got %d articles", len(page2))
	}
}

func TestLikeArticle(t *testing.T) {
	store := newFakeArticleStore()
	svc := newTestArticleService(store)

	article, err := svc.CreateArticle(context.Background(), 1, &dto.CreateArticleRequest{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	likes, err := svc.LikeArticle(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("LikeArticle: %v", err)
	}
	if likes != 1 {
		t.Fatalf("expected 1 like, got %d", likes)
	}

	if _, err := svc.LikeArticle(context.Background(), 999); !errors.Is(err, apperrors.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound for unknown article, got %v", err)
	}
}

func TestAddCommentBumpsCounter(t *testing.T) {
	store := newFakeArticleStore()
	svc := newTestArticleService(store)

	article, err := svc.CreateArticle(context.Background(), 1, &dto.CreateArticleRequest{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	comment, err := svc.AddComment(context.Background(), article.ID, 2, &dto.CreateCommentRequest{Content: "Bien joué !"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if comment.ID == 0 {
		t.Fatal("expected a persisted comment ID")
	}

	got, err := svc.GetArticle(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if got.CommentsCount != 1 {
		t.Fatalf("expected comments_count 1, got %d", got.CommentsCount)
	}

	comments, err := svc.ListComments(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "Bien joué !" {
		t.Fatalf("unexpected comments: %+v", comments)
	}
}

func TestListCommentsUnknownArticle(t *testing.T) {
	svc := newTestArticleService(newFakeArticleStore())

	if _, err := svc.ListComments(context.Background(), 42); !errors.Is(err, apperrors.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}
