package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"varsharaksha/blobstore"
	"varsharaksha/database"
	"varsharaksha/feed"
	"varsharaksha/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreatePost creates a community report. Content and category are
// required; image and location are best-effort extras. The image upload
// must finish before the document is inserted so a post never references
// an in-flight or failed upload.
func CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post content cannot be empty"})
		return
	}

	category := c.PostForm("category")
	switch category {
	case models.CategoryAlert, models.CategoryRequest, models.CategoryOffer:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category must be Alert, Request or Offer"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&author); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch author profile"})
		return
	}
	if author.PhotoURL == "" {
		author.PhotoURL = fallbackAvatar
	}

	location := resolveLocation(ctx, c)

	imageURL := ""
	imageFile, _, err := c.Request.FormFile("image")
	if err == nil {
		defer imageFile.Close()
		if blob == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads are not configured"})
			return
		}
		imageURL, err = blob.UploadImage(ctx, imageFile)
		if err != nil {
			log.Printf("[CreatePost] image upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post. Please try again."})
			return
		}
	}

	post := models.Post{
		ID:             primitive.NewObjectID(),
		AuthorID:       userID,
		AuthorName:     author.Name,
		AuthorPhotoURL: author.PhotoURL,
		Content:        content,
		Category:       category,
		ImageURL:       imageURL,
		Location:       location,
		CreatedAt:      time.Now().UnixMilli(),
		Likes:          []primitive.ObjectID{},
		Disagrees:      []primitive.ObjectID{},
		Responses:      []models.Response{},
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("[CreatePost] insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post. Please try again."})
		return
	}

	kickFeed()

	if category == models.CategoryAlert {
		NotifyAlert(post)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"postId":  post.ID.Hex(),
	})
}

// resolveLocation applies the best-effort location policy. Free text that
// differs from the auto-detected name is forward-geocoded; coordinates
// without text are reverse-geocoded. Any geocoder failure degrades to the
// information already in hand and never blocks posting.
func resolveLocation(ctx context.Context, c *gin.Context) *models.Location {
	manual := strings.TrimSpace(c.PostForm("locationName"))
	detected := strings.TrimSpace(c.PostForm("detectedName"))

	var lat, lon *float64
	if v, err := strconv.ParseFloat(c.PostForm("lat"), 64); err == nil {
		lat = &v
	}
	if v, err := strconv.ParseFloat(c.PostForm("lon"), 64); err == nil {
		lon = &v
	}

	if manual != "" && manual != detected {
		if geocodeClient != nil {
			place, err := geocodeClient.Forward(ctx, manual)
			if err == nil {
				return &models.Location{Name: place.Name, Lat: &place.Lat, Lon: &place.Lon}
			}
			log.Printf("[CreatePost] geocoding %q failed: %v", manual, err)
		}
		return &models.Location{Name: manual}
	}

	if lat != nil && lon != nil {
		name := detected
		if name == "" && geocodeClient != nil {
			place, err := geocodeClient.Reverse(ctx, *lat, *lon)
			if err == nil {
				name = place.DisplayName()
			} else {
				log.Printf("[CreatePost] reverse geocoding failed: %v", err)
			}
		}
		if name == "" {
			name = "Coordinates Only"
		}
		return &models.Location{Name: name, Lat: lat, Lon: lon}
	}

	if manual != "" {
		return &models.Location{Name: manual}
	}
	return nil
}

// GetFeed returns the community feed: posts from the rolling last 24
// hours, newest first. The websocket surface delivers the same query as a
// live subscription; this is the one-shot read.
func GetFeed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := database.NewPostStore()
	posts, err := store.ListPosts(ctx, feed.Scope{Window: feed.DefaultWindow}.BuildQuery(time.Now()))
	if err != nil {
		log.Printf("[GetFeed] query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, RenderPosts(posts))
}

// GetMyPosts returns the current user's posts for the profile view.
func GetMyPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := database.NewPostStore()
	posts, err := store.ListPosts(ctx, feed.Scope{AuthorID: &userID}.BuildQuery(time.Now()))
	if err != nil {
		log.Printf("[GetMyPosts] query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	// The author query carries no order clause; sort here.
	feed.SortByCreatedDesc(posts)

	c.JSON(http.StatusOK, RenderPosts(posts))
}

// UpdatePost edits the content of the caller's own post. Content only; no
// other field is touched.
func UpdatePost(c *gin.Context) {
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
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post content cannot be empty"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID, "authorId": userID},
		bson.M{"$set": bson.M{"content": content}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save changes. Please try again."})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	kickFeed()
	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully"})
}

// DeletePost removes the caller's own post. The backing image blob goes
// first: an already-missing blob is fine, any other blob failure aborts so
// the post survives intact for a retry.
func DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID, "authorId": userID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if post.ImageURL != "" && blob != nil {
		err := blob.DeleteImage(ctx, post.ImageURL)
		if errors.Is(err, blobstore.ErrNotFound) {
			log.Printf("[DeletePost] image already gone, deleting post anyway: %s", post.ImageURL)
		} else if err != nil {
			log.Printf("[DeletePost] image delete failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post. Please try again."})
			return
		}
	}

	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post. Please try again."})
		return
	}

	kickFeed()
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// RenderPosts builds the wire shape for a post list, always an array.
func RenderPosts(posts []models.Post) []map[string]interface{} {
	out := make([]map[string]interface{}, len(posts))
	for i, p := range posts {
		out[i] = renderPost(p)
	}
	return out
}

func renderPost(p models.Post) map[string]interface{} {
	m := map[string]interface{}{
		"id":             p.ID.Hex(),
		"authorId":       p.AuthorID.Hex(),
		"authorName":     p.AuthorName,
		"authorPhotoURL": p.AuthorPhotoURL,
		"content":        p.Content,
		"category":       p.Category,
		"createdAt":      p.CreatedAt,
		"createdAtText":  feed.FormatCreatedAt(p.CreatedAt),
		"likes":          hexIDs(p.Likes),
		"disagrees":      hexIDs(p.Disagrees),
		"responses":      renderResponses(p.Responses),
	}
	if p.ImageURL != "" {
		m["imageUrl"] = p.ImageURL
	}
	if p.Location != nil {
		m["location"] = p.Location
		m["hasCoordinates"] = p.Location.HasCoordinates()
	}
	return m
}

func renderResponses(responses []models.Response) []map[string]interface{} {
	out := make([]map[string]interface{}, len(responses))
	for i, r := range responses {
		out[i] = map[string]interface{}{
			"responderId":   r.ResponderID.Hex(),
			"responderName": r.ResponderName,
			"text":          r.Text,
			"createdAt":     r.CreatedAt,
			"createdAtText": feed.FormatCreatedAt(r.CreatedAt),
		}
	}
	return out
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
