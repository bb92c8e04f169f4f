package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"varsharaksha/database"
	"varsharaksha/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RespondToPost appends an offer-of-help response to a Request or Offer
// post. Responses are append-only; there is no edit or delete. Blank text
// is silently dropped so an accidental empty submit changes nothing.
func RespondToPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if post.Category != models.CategoryRequest && post.Category != models.CategoryOffer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only Request and Offer posts accept responses"})
		return
	}

	var responder models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&responder); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch responder profile"})
		return
	}

	response := models.Response{
		ResponderID:   userID,
		ResponderName: responder.Name,
		Text:          text,
		CreatedAt:     time.Now().UnixMilli(),
	}

	_, err = database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"responses": response}},
	)
	if err != nil {
		log.Printf("[RespondToPost] update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send response"})
		return
	}

	kickFeed()
	c.JSON(http.StatusCreated, gin.H{"message": "Response sent"})
}
