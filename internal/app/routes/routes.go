package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aquaclub/aquaclub/internal/app/controllers"
	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/metrics"
	"github.com/aquaclub/aquaclub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	cardController *controllers.CardController,
	purchaseController *controllers.PurchaseController,
	articleController *controllers.ArticleController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/magic-link", authController.RequestMagicLink)
		auth.POST("/magic-link/verify", authController.VerifyMagicLink)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.POST("/auth/logout-all", authController.LogoutAll)
		authenticated.PUT("/auth/password", authController.UpdatePassword)

		// Event routes - dashboard and calendar, open to every club role
		events := authenticated.Group("/events")
		events.Use(authMiddleware.RoleRequired(models.RoleAthlete, models.RoleMembre, models.RoleAdmin))
		{
			events.GET("", eventController.ListEvents)
			events.GET("/calendar", eventController.Calendar)
			events.GET("/:id", eventController.GetEvent)
			events.POST("/:id/register", eventController.Register)
			events.DELETE("/:id/register", eventController.Unregister)

			// Event management is reserved for members and admins
			eventsMemberProtected := events.Group("")
			eventsMemberProtected.Use(authMiddleware.RoleRequired(models.RoleMembre, models.RoleAdmin))
			{
				eventsMemberProtected.POST("", eventController.CreateEvent)
				eventsMemberProtected.PUT("/:id", eventController.UpdateEvent)
				eventsMemberProtected.DELETE("/:id", eventController.DeleteEvent)
			}
		}

		// Card routes - entry card tracking, members and admins only
		cards := authenticated.Group("/cards")
		cards.Use(authMiddleware.RoleRequired(models.RoleMembre, models.RoleAdmin))
		{
			cards.GET("", cardController.ListCards)
			cards.GET("/:id", cardController.GetCard)
			cards.POST("", cardController.CreateCard)
			cards.PUT("/:id", cardController.UpdateCard)
			cards.POST("/:id/consume", cardController.ConsumeEntry)
		}

		// Purchase routes - the budget page
		purchases := authenticated.Group("/purchases")
		purchases.Use(authMiddleware.RoleRequired(models.RoleAthlete, models.RoleMembre, models.RoleAdmin))
		{
			purchases.GET("", purchaseController.ListPurchases)
			purchases.GET("/summary", purchaseController.Summary)

			purchasesMemberProtected := purchases.Group("")
			purchasesMemberProtected.Use(authMiddleware.RoleRequired(models.RoleMembre, models.RoleAdmin))
			{
				purchasesMemberProtected.POST("", purchaseController.CreatePurchase)
			}
		}

		// Article routes - the club forum
		articles := authenticated.Group("/articles")
		articles.Use(authMiddleware.RoleRequired(models.RoleAthlete, models.RoleMembre, models.RoleAdmin))
		{
			articles.GET("", articleController.ListArticles)
			articles.GET("/:id", articleController.GetArticle)
			articles.POST("/:id/like", articleController.LikeArticle)
			articles.GET("/:id/comments", articleController.ListComments)
			articles.POST("/:id/comments", articleController.AddComment)

			articlesMemberProtected := articles.Group("")
			articlesMemberProtected.Use(authMiddleware.RoleRequired(models.RoleMembre, models.RoleAdmin))
			{
				articlesMemberProtected.POST("", articleController.CreateArticle)
			}
		}

		// Admin routes - user and role management
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/users", adminController.ListUsers)
			admin.PUT("/users/:id/role", adminController.UpdateRole)
			admin.POST("/users/sync", adminController.SyncUsers)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Prometheus scrape endpoint (outside the versioned API)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger routes are set up in bootstrap.go already
}
