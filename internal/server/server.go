package server

import (
	"log"
	"strings"
	"time"

	"github.com/Truthtechno/LockerRoom-sub000/internal/config"
	"github.com/Truthtechno/LockerRoom-sub000/internal/handler"
	"github.com/Truthtechno/LockerRoom-sub000/internal/middleware"
	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/ratelimit"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/internal/service"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	xenRepo := repository.NewXenRepository(db)

	mediaStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, followRepo, schoolRepo, redisClient)
	authSvc := service.NewAuthService(userRepo)
	postSvc := service.NewPostService(postRepo, schoolRepo, mediaStorage, notificationSvc, searchSvc)
	followSvc := service.NewFollowService(followRepo, schoolRepo, userRepo, notificationSvc)
	engagementSvc := service.NewEngagementService(engagementRepo, postRepo, notificationSvc)
	schoolSvc := service.NewSchoolService(schoolRepo, userRepo, searchSvc)
	xenSvc := service.NewXenService(xenRepo, schoolRepo, mediaStorage, notificationSvc, cfg.XenSubmissionFeeCents)
	statSvc := service.NewStatService(userRepo, postRepo, xenRepo, schoolRepo)

	var primary *ratelimit.RedisCounter
	if redisClient != nil {
		primary = ratelimit.NewRedisCounter(redisClient)
	}
	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow, primary)

	authHandler := handler.NewAuthHandler(authSvc)
	postHandler := handler.NewPostHandler(postSvc)
	followHandler := handler.NewFollowHandler(followSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)
	engagementHandler := handler.NewEngagementHandler(engagementSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)
	xenHandler := handler.NewXenHandler(xenSvc)
	searchHandler := handler.NewSearchHandler(searchSvc)
	statHandler := handler.NewStatHandler(statSvc)
	adminHandler := handler.NewAdminHandler(limiter)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(limiter, middleware.RateLimitConfig{
		Production: cfg.IsProduction(),
		Enabled:    cfg.RateLimitEnabled,
	}))

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Public browsing routes
	api.GET("/feed", postHandler.GetFeed)
	api.GET("/posts/:id", postHandler.GetPost)
	api.GET("/posts/:id/comments", engagementHandler.GetComments)
	api.GET("/posts/:id/counts", engagementHandler.PostCounts)
	api.GET("/schools", schoolHandler.ListSchools)
	api.GET("/schools/:id", schoolHandler.GetSchool)
	api.GET("/schools/:id/students", schoolHandler.ListStudents)
	api.GET("/students/:id", schoolHandler.GetStudent)
	api.GET("/students/:id/posts", postHandler.GetStudentPosts)
	api.GET("/students/:id/followers", followHandler.ListFollowers)
	api.GET("/students/:id/followers/count", followHandler.FollowerCount)
	api.GET("/search/posts", searchHandler.SearchPosts)
	api.GET("/search/students", searchHandler.SearchStudents)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Posting is restricted to students inside the service layer.
		protected.POST("/posts", postHandler.CreatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)

		protected.POST("/students/:id/follow", followHandler.Follow)
		protected.DELETE("/students/:id/follow", followHandler.Unfollow)
		protected.GET("/following", followHandler.ListFollowing)

		protected.POST("/posts/:id/like", engagementHandler.LikePost)
		protected.DELETE("/posts/:id/like", engagementHandler.UnlikePost)
		protected.POST("/posts/:id/comments", engagementHandler.CommentOnPost)
		protected.POST("/posts/:id/save", engagementHandler.SavePost)
		protected.DELETE("/posts/:id/save", engagementHandler.UnsavePost)
		protected.GET("/saved", engagementHandler.GetSaved)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		xen := protected.Group("/xen")
		{
			xen.POST("/submissions", authMiddleware.RequireRole(model.RoleStudent), xenHandler.CreateSubmission)
			xen.GET("/submissions/me", authMiddleware.RequireRole(model.RoleStudent), xenHandler.ListMySubmissions)
			xen.POST("/submissions/:id/payment", authMiddleware.RequireRole(model.RoleStudent), xenHandler.ConfirmPayment)
			xen.GET("/submissions/:id", authMiddleware.RequireRole(model.RoleStudent, model.RoleScout, model.RoleScoutAdmin), xenHandler.GetSubmission)
			xen.GET("/queue", authMiddleware.RequireRole(model.RoleScout, model.RoleScoutAdmin), xenHandler.ListReviewQueue)
			xen.POST("/submissions/:id/reviews", authMiddleware.RequireRole(model.RoleScout, model.RoleScoutAdmin), xenHandler.AddReview)
			xen.POST("/submissions/:id/finalize", authMiddleware.RequireRole(model.RoleScoutAdmin), xenHandler.Finalize)
		}

		schools := protected.Group("/schools")
		{
			schools.POST("", authMiddleware.RequireRole(model.RoleSystemAdmin), schoolHandler.CreateSchool)
			schools.POST("/:id/students", authMiddleware.RequireRole(model.RoleSchoolAdmin), schoolHandler.OnboardStudent)
			schools.GET("/:id/stats", authMiddleware.RequireRole(model.RoleSchoolAdmin), statHandler.GetSchoolStats)
		}

		admin := protected.Group("/admin")
		admin.Use(authMiddleware.RequireRole(model.RoleSystemAdmin))
		{
			admin.GET("/stats", statHandler.GetPlatformStats)
			admin.POST("/rate-limits/reset", adminHandler.ResetRateLimit)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
