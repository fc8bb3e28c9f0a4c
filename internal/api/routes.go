package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/core"
	"github.com/Carlvinchi/recipiverse/internal/middleware"
	"github.com/Carlvinchi/recipiverse/internal/places"
)

// SetupRoutes wires every endpoint onto the router. Global middleware
// (logging, recovery, CORS) is applied by the caller before this runs.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authClient *auth.Client,
	authService core.AuthService,
	uploadService core.UploadService,
	feedService core.FeedService,
	postService core.PostService,
	placesLookup places.Lookup,
) {
	authMW := middleware.NewAuthMiddleware(authClient, logger)

	authHandler := NewAuthHandler(authService, logger)
	userHandler := NewUserHandler(authService, uploadService, postService, logger)
	postHandler := NewPostHandler(uploadService, feedService, postService, logger)
	placesHandler := NewPlacesHandler(placesLookup, logger)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.GoogleSignIn)
			authGroup.POST("/logout", authMW.VerifyToken(), authHandler.Logout)
		}

		usersGroup := apiV1.Group("/users", authMW.VerifyToken())
		{
			usersGroup.GET("/me", userHandler.GetCurrentUserProfile)
			usersGroup.PUT("/me", userHandler.UpdateProfile)
			usersGroup.DELETE("/me", userHandler.DeleteAccount)
			usersGroup.PUT("/me/image", userHandler.UpdateProfileImage)
		}

		postsGroup := apiV1.Group("/posts")
		{
			// The feed is readable without a session.
			postsGroup.GET("", postHandler.ListPosts)
			postsGroup.POST("", authMW.VerifyToken(), postHandler.CreatePost)
			postsGroup.DELETE("/:postId", authMW.VerifyToken(), postHandler.DeletePost)
		}

		apiV1.GET("/places/nearby", authMW.VerifyToken(), placesHandler.FindNearby)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured")
}
