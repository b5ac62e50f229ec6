package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"contentflow/domain/model"
	"contentflow/domain/repository"
	"contentflow/infrastructure/configuration"
	httpHandler "contentflow/interfaces/http"
	"contentflow/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	oauthHandler httpHandler.IOAuthHandler,
	accountHandler httpHandler.IAccountHandler,
	postHandler httpHandler.IPostHandler,
	publishHandler httpHandler.IPublishHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	frontend := configuration.C.App.FrontendURL
	allowed := []string{frontend, "http://localhost:4200", "http://localhost:5173"}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"platforms": model.SupportedPlatforms(),
		})
	})

	// OAuth connect flow. Initiate needs a signed-in user; the provider
	// callback arrives unauthenticated and carries the user inside state.
	router.GET("/auth/:platform", middleware.AuthOrRedirect(userRepository), oauthHandler.Initiate)
	router.GET("/auth/:platform/callback", oauthHandler.Callback)

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	api.GET("/social-accounts", accountHandler.List)
	api.DELETE("/social-accounts/:platform", accountHandler.Disconnect)

	posts := api.Group("/posts")
	{
		posts.POST("", postHandler.Create)
		posts.GET("", postHandler.List)
		posts.GET("/:postId", postHandler.Get)
		posts.PUT("/:postId", postHandler.Update)
		posts.DELETE("/:postId", postHandler.Delete)
		posts.POST("/:postId/publish", publishHandler.Publish)
		posts.GET("/:postId/publish-logs", publishHandler.History)
	}

	return router
}
