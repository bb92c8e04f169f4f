package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"varsharaksha/blobstore"
	"varsharaksha/feed"
	"varsharaksha/services"
)

// Common constants and wiring shared across all handler files.
const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

var feedHub *feed.Synchronizer
var blob *blobstore.Client
var weatherClient *services.WeatherClient
var geocodeClient *services.GeocodeClient
var assistantClient *services.AssistantClient
var vapidPrivateKey string

// SetFeedHub wires the live feed synchronizer so write handlers can kick a
// refresh after every mutation.
func SetFeedHub(hub *feed.Synchronizer) {
	feedHub = hub
}

// SetBlobStore wires the image store. nil leaves image uploads disabled.
func SetBlobStore(c *blobstore.Client) {
	blob = c
}

// SetServices wires the external info clients.
func SetServices(weather *services.WeatherClient, geocode *services.GeocodeClient, assistant *services.AssistantClient) {
	weatherClient = weather
	geocodeClient = geocode
	assistantClient = assistant
}

func kickFeed() {
	if feedHub != nil {
		feedHub.Kick()
	}
}

// currentUserID reads the acting user set by the auth middleware. Writes a
// 401 and returns false when the id is missing or malformed.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
