package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"varsharaksha/database"
	"varsharaksha/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// VotePost toggles an agree or disagree vote on an Alert post. The two
// vote sets are mutually exclusive per user, and both sides of a switch
// land in a single update so concurrent voters cannot leave a user in
// both sets.
func VotePost(c *gin.Context) {
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
		Kind string `json:"kind" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := models.VoteKind(req.Kind)
	if kind != models.VoteAgree && kind != models.VoteDisagree {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote kind must be agree or disagree"})
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

	if post.Category != models.CategoryAlert {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only Alert posts can be voted on"})
		return
	}

	change, err := post.ToggleVote(userID, kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{}
	if change.AddTo != "" {
		update["$addToSet"] = bson.M{change.AddTo: userID}
	}
	if len(change.RemoveFrom) > 0 {
		pull := bson.M{}
		for _, field := range change.RemoveFrom {
			pull[field] = userID
		}
		update["$pull"] = pull
	}

	if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
		log.Printf("[VotePost] update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	kickFeed()
	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}
