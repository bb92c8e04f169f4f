package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"varsharaksha/database"
	"varsharaksha/feed"

	"github.com/gin-gonic/gin"
)

// GetMapPosts returns the feed-window posts that carry coordinates, for
// plotting as map markers. Posts with a name-only location are excluded.
func GetMapPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := database.NewPostStore()
	scope := feed.Scope{Window: feed.DefaultWindow, LocatedOnly: true}
	posts, err := store.ListPosts(ctx, scope.BuildQuery(time.Now()))
	if err != nil {
		log.Printf("[GetMapPosts] query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, RenderPosts(posts))
}
