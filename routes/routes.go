package routes

import (
	"time"

	"varsharaksha/handlers"
	"varsharaksha/middleware"
	ws "varsharaksha/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(manager *ws.Manager) *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "VarshaRaksha API is running",
			"time":    time.Now().Unix(),
			"ws":      "WebSocket available at /ws",
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes (no auth required)
	router.POST("/api/signup", handlers.Signup)
	router.POST("/api/login", handlers.Login)
	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	// Google OAuth routes
	router.GET("/api/google/auth-url", handlers.GetGoogleAuthURL)
	router.GET("/api/google/callback", handlers.GoogleOAuthCallback)

	// Public information pages
	router.GET("/api/official-info", handlers.GetOfficialInfo)
	router.GET("/api/emergency-contacts", handlers.GetEmergencyContacts)
	router.GET("/api/weather", handlers.GetWeather)

	// Live snapshots
	router.GET("/ws", manager.Handler)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile
	protected.GET("/me", handlers.Me)
	protected.PUT("/me", handlers.UpdateMe)

	// Posts
	protected.POST("/posts", middleware.RateLimit(10, time.Minute), handlers.CreatePost)
	protected.GET("/feed", handlers.GetFeed)
	protected.GET("/my/posts", handlers.GetMyPosts)
	protected.GET("/map/posts", handlers.GetMapPosts)
	protected.PUT("/posts/:id", handlers.UpdatePost)
	protected.DELETE("/posts/:id", handlers.DeletePost)

	// Reactions
	protected.POST("/posts/:id/vote", middleware.RateLimit(30, time.Minute), handlers.VotePost)
	protected.POST("/posts/:id/respond", middleware.RateLimit(30, time.Minute), handlers.RespondToPost)

	// Safety assistant
	protected.GET("/assistant/intro", handlers.GetAssistantIntro)
	protected.POST("/assistant", middleware.RateLimit(20, time.Minute), handlers.AskAssistant)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)
	protected.DELETE("/subscribe", handlers.UnsubscribePush)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
