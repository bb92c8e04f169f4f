package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"varsharaksha/blobstore"
	"varsharaksha/database"
	"varsharaksha/feed"
	"varsharaksha/handlers"
	"varsharaksha/routes"
	"varsharaksha/services"
	ws "varsharaksha/websocket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("🚀 Starting VarshaRaksha Backend Server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("❌ JWT_SECRET must be set")
	}

	// ===== CONNECT TO MONGODB WITH RETRY =====
	log.Println("🔌 Connecting to MongoDB...")

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectMongo(); err != nil {
			dbErr = err
			log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("❌ Failed to connect to MongoDB:", dbErr)
	}
	log.Println("✅ MongoDB connected successfully")
	defer database.DisconnectMongo()

	// ===== GIN MODE =====
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
		log.Println("⚙️ Running in RELEASE mode")
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("⚙️ Running in DEBUG mode")
	}

	// ===== BLOB STORE =====
	blob, err := blobstore.New()
	if err != nil {
		log.Printf("⚠️  Cloudinary not configured, image uploads disabled: %v", err)
	} else {
		handlers.SetBlobStore(blob)
		log.Println("✅ Cloudinary connected")
	}

	// ===== EXTERNAL SERVICES =====
	var weather *services.WeatherClient
	var geocode *services.GeocodeClient
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		weather = services.NewWeatherClient(key)
		geocode = services.NewGeocodeClient(key)
	} else {
		log.Println("⚠️  OPENWEATHER_API_KEY not set, weather and geocoding disabled")
	}
	assistant := services.NewAssistantClient(os.Getenv("GEMINI_API_KEY"))
	handlers.SetServices(weather, geocode, assistant)

	// ===== FEED SYNCHRONIZER =====
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	hub := feed.New(database.NewPostStore())
	handlers.SetFeedHub(hub)

	changes, err := database.WatchPosts(rootCtx)
	if err != nil {
		// Standalone MongoDB has no change streams; poll instead.
		log.Printf("⚠️  Change streams unavailable, falling back to polling: %v", err)
		changes = feed.Poll(rootCtx, 15*time.Second)
	} else {
		log.Println("✅ Watching posts collection for changes")
	}
	go hub.Run(rootCtx, changes)

	// ===== ROUTER =====
	manager := ws.NewManager(hub)
	router := routes.SetupRouter(manager)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "VarshaRaksha Backend Running 🚀",
			"service": "healthy",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// ===== SERVER CONFIG =====
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error:", err)
		}
	}()

	log.Println("✅ Server is ready and accepting connections")

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	log.Println("👋 Server stopped gracefully")
}
