package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/app/services"
	"github.com/aquaclub/aquaclub/internal/middleware"
)

// ArticleController handles forum article operations
type ArticleController struct {
	articleService services.ArticleService
}

// NewArticleController creates a new ArticleController
func NewArticleController(articleService services.ArticleService) *ArticleController {
	return &ArticleController{
		articleService: articleService,
	}
}

// ListArticles handles retrieving articles
// @Summary List articles
// @Description Returns forum articles with their authors, newest first
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Article} "Articles"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /articles [get]
func (c *ArticleController) ListArticles(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "0"))

	articles, err := c.articleService.ListArticles(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(articles))
}

// GetArticle handles retrieving one article
// @Summary Get an article
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} dto.APIResponse{data=models.Article} "Article"
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Router /articles/{id} [get]
func (c *ArticleController) GetArticle(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	article, err := c.articleService.GetArticle(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(article))
}

// CreateArticle handles publishing an article
// @Summary Publish an article
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateArticleRequest true "Article payload"
// @Success 201 {object} dto.APIResponse{data=models.Article} "Article published"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /articles [post]
func (c *ArticleController) CreateArticle(ctx *gin.Context) {
	var req dto.CreateArticleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profileID, _ := middleware.GetProfileID(ctx)

	article, err := c.articleService.CreateArticle(ctx.Request.Context(), profileID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(article))
}

// LikeArticle handles liking an article
// @Summary Like an article
// @Description Increments the like counter and returns the new value
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} dto.APIResponse "New like count"
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Router /articles/{id}/like [post]
func (c *ArticleController) LikeArticle(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	likes, err := c.articleService.LikeArticle(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"likes": likes}))
}

// ListComments handles retrieving an article's comments
// @Summary List comments
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Comment} "Comments"
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Router /articles/{id}/comments [get]
func (c *ArticleController) ListComments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.articleService.ListComments(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments))
}

// AddComment handles commenting on an article
// @Summary Comment on an article
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param request body dto.CreateCommentRequest true "Comment payload"
// @Success 201 {object} dto.APIResponse{data=models.Comment} "Comment added"
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Router /articles/{id}/comments [post]
func (c *ArticleController) AddComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profileID, _ := middleware.GetProfileID(ctx)

	comment, err := c.articleService.AddComment(ctx.Request.Context(), id, profileID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}
