package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "quicknotes/internal/app"
	"quicknotes/internal/bootstrap"
	"quicknotes/internal/cache"
	"quicknotes/internal/repository"
	"quicknotes/internal/transport/http/handler"
	"quicknotes/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	categoryRepo := repository.NewCategoryRepository(app.MySQL)
	noteRepo := repository.NewNoteRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		appsvc.NewCategorySeeder(categoryRepo),
		cache.NewTokenDenylist(app.Redis),
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.AccessExpireMinute)*time.Minute,
		time.Duration(app.Config.Auth.RefreshExpireMinute)*time.Minute,
	)
	categoryService := appsvc.NewCategoryService(categoryRepo)
	noteService := appsvc.NewNoteService(noteRepo, categoryRepo)

	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	noteHandler := handler.NewNoteHandler(noteService)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/token/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authRequired, authHandler.Me)

	categoryGroup := v1.Group("/categories")
	categoryGroup.Use(authRequired)
	categoryGroup.GET("", categoryHandler.List)
	categoryGroup.POST("", categoryHandler.Create)
	categoryGroup.GET("/:id", categoryHandler.Get)
	categoryGroup.PUT("/:id", categoryHandler.Update)
	categoryGroup.PATCH("/:id", categoryHandler.Update)
	categoryGroup.DELETE("/:id", categoryHandler.Delete)

	noteGroup := v1.Group("/notes")
	noteGroup.Use(authRequired)
	noteGroup.GET("", noteHandler.List)
	noteGroup.POST("", noteHandler.Create)
	noteGroup.GET("/by-category", noteHandler.ByCategory)
	noteGroup.GET("/:id", noteHandler.Get)
	noteGroup.PUT("/:id", noteHandler.Update)
	noteGroup.PATCH("/:id", noteHandler.Update)
	noteGroup.DELETE("/:id", noteHandler.Delete)

	return router
}
