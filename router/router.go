package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"foodgram/config"
	"foodgram/controllers"
	dbpkg "foodgram/db"
	"foodgram/metrics"
	"foodgram/middleware"
	"foodgram/storage"
	"foodgram/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// Initialize wires all routes and middlewares: public routes, routes that
// need a logged user, and admin routes. ctx bounds background work such as
// the rate limiter cleanup.
func Initialize(ctx context.Context, r *gin.Engine, cfg config.Configuration, db *gorm.DB, images storage.ImageStore) {
	controllers.SetConfigurations(cfg)
	tools.RegisterBindingValidations()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.CorsOrigins))
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Storage.Driver == "local" && strings.HasPrefix(cfg.Storage.MediaURL, "/") {
		r.Static(cfg.Storage.MediaURL, cfg.Storage.MediaRoot)
	}

	limiter := middleware.NewRateLimiter(cfg.Security.AuthRateLimit, cfg.Security.AuthRateBurst)
	go limiter.Run(ctx, 5*time.Minute)

	api := r.Group("/api")
	api.Use(Logger())
	api.Use(dbpkg.SetDBtoContext(db))
	api.Use(storage.SetToContext(images))
	api.Use(controllers.AuthOptional())

	// Public (anonymous allowed)
	api.POST("/users", limiter.Middleware(), controllers.CreateUser)
	api.POST("/auth/token/login", limiter.Middleware(), controllers.Login)
	api.GET("/users", controllers.GetUsers)
	api.GET("/users/:id", controllers.GetUser)
	api.GET("/recipes", controllers.GetRecipes)
	api.GET("/recipes/:id", controllers.GetRecipe)
	api.GET("/ingredients", controllers.GetIngredients)
	api.GET("/ingredients/:id", controllers.GetIngredient)
	api.GET("/tags", controllers.GetTags)
	api.GET("/tags/:id", controllers.GetTag)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())
	auth.POST("/auth/token/logout", controllers.Logout)
	auth.GET("/users/me", controllers.Me)
	auth.POST("/users/set_password", controllers.SetPassword)
	auth.GET("/users/subscriptions", controllers.GetSubscriptions)
	auth.GET("/users/:id/subscribe", controllers.GetSubscriptionStatus)
	auth.POST("/users/:id/subscribe", controllers.Subscribe)
	auth.DELETE("/users/:id/subscribe", controllers.Unsubscribe)

	auth.POST("/recipes", controllers.CreateRecipe)
	auth.PATCH("/recipes/:id", controllers.UpdateRecipe)
	auth.DELETE("/recipes/:id", controllers.DeleteRecipe)
	auth.GET("/recipes/download_shopping_cart", controllers.DownloadShoppingCart)
	auth.POST("/recipes/:id/favorite", controllers.AddFavorite)
	auth.DELETE("/recipes/:id/favorite", controllers.RemoveFavorite)
	auth.POST("/recipes/:id/shopping_cart", controllers.AddToShoppingCart)
	auth.DELETE("/recipes/:id/shopping_cart", controllers.RemoveFromShoppingCart)

	// Admin routes
	admin := auth.Group("")
	admin.Use(Adminizer())
	admin.DELETE("/users/:id", controllers.DeleteUser)
	admin.POST("/ingredients", controllers.CreateIngredient)
	admin.POST("/tags", controllers.CreateTag)
}
