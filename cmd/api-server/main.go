package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/database"
	"foodgram/internal/api/cache"
	"foodgram/internal/api/handler"
	"foodgram/internal/api/middleware"
	"foodgram/internal/api/repository"
	"foodgram/internal/api/service"
	"foodgram/internal/config"
	"foodgram/internal/storage"
)

func main() {
	// 1️⃣ Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// 2️⃣ Connect to the database
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// 3️⃣ Redis catalog cache, optional: fall back to a no-op cache
	catalogCache, err := cache.NewCatalogCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		log.Printf("redis unavailable, running without catalog cache: %v", err)
		catalogCache = cache.NewNoopCatalogCache()
	}

	// 4️⃣ Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	followRepo := repository.NewFollowRepository(db)

	// 5️⃣ Services
	imageStore := storage.NewImageStore(cfg.MediaPath)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo, followRepo)
	tagService := service.NewTagService(tagRepo, catalogCache)
	ingredientService := service.NewIngredientService(ingredientRepo, catalogCache)
	recipeService := service.NewRecipeService(
		recipeRepo, ingredientRepo, tagRepo, favoriteRepo, cartRepo, followRepo, imageStore)
	favoriteService := service.NewFavoriteService(favoriteRepo, recipeRepo)
	cartService := service.NewShoppingCartService(cartRepo, recipeRepo, userRepo)
	followService := service.NewFollowService(followRepo, userRepo, recipeRepo)

	// 6️⃣ Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected ✅"})
	})

	// Uploaded recipe images
	r.Static("/media", cfg.MediaPath)

	// 7️⃣ Routes
	api := r.Group("/api")
	handler.NewAuthHandler(authService, cfg).RegisterRoutes(api.Group("/auth"))
	handler.NewTagHandler(tagService).RegisterRoutes(api.Group("/tags"))
	handler.NewIngredientHandler(ingredientService).RegisterRoutes(api.Group("/ingredients"))
	handler.NewRecipeHandler(recipeService, favoriteService, cartService, authService).
		RegisterRoutes(api.Group("/recipes"))
	handler.NewUserHandler(userService, followService, authService).
		RegisterRoutes(api.Group("/users"))

	httpServer := fmt.Sprintf(":%d", cfg.HTTPPort)
	fmt.Println("🚀 Server running at", httpServer)
	if err := r.Run(httpServer); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
