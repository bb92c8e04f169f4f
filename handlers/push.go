package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"varsharaksha/database"
	"varsharaksha/models"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PushSubscription stores one browser's web push endpoint per user.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

func init() {
	// Generate throwaway VAPID keys when none are configured so local
	// development works out of the box.
	if os.Getenv("VAPID_PUBLIC_KEY") == "" || os.Getenv("VAPID_PRIVATE_KEY") == "" {
		publicKey, privateKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys: %v", err)
			return
		}

		os.Setenv("VAPID_PUBLIC_KEY", publicKey)
		os.Setenv("VAPID_PRIVATE_KEY", privateKey)

		log.Println("⚠️  Generated new VAPID keys - for production, set these as environment variables:")
		log.Printf("   VAPID_PUBLIC_KEY: %s", publicKey)
		log.Printf("   VAPID_PRIVATE_KEY: %s", privateKey)
	}

	vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
}

func GetVapidPublicKey(c *gin.Context) {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	if publicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "VAPID public key not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": publicKey})
}

func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pushSub := PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	// One subscription per user, latest browser wins.
	_, err := database.PushSubs.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": pushSub},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("Failed to save subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	log.Printf("Push subscription saved for user: %s", userID.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "Push subscription saved successfully"})
}

func UnsubscribePush(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.PushSubs.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push subscription removed"})
}

// NotifyAlert fans out a push notification for a new Alert post to every
// subscribed user except the author. Delivery is best effort and runs off
// the request goroutine.
func NotifyAlert(post models.Post) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cursor, err := database.PushSubs.Find(ctx, bson.M{"userId": bson.M{"$ne": post.AuthorID}})
		if err != nil {
			log.Printf("Failed to list push subscriptions: %v", err)
			return
		}

		var subs []PushSubscription
		if err := cursor.All(ctx, &subs); err != nil {
			log.Printf("Failed to decode push subscriptions: %v", err)
			return
		}

		body := post.Content
		if len(body) > 100 {
			body = body[:100] + "..."
		}
		title := "🚨 New Alert from " + post.AuthorName
		if post.Location != nil && post.Location.Name != "" {
			title = "🚨 Alert near " + post.Location.Name
		}

		payload, err := json.Marshal(map[string]interface{}{
			"title": title,
			"body":  body,
			"data": map[string]interface{}{
				"url":       "/feed",
				"timestamp": time.Now().Unix(),
			},
		})
		if err != nil {
			log.Printf("Failed to marshal push payload: %v", err)
			return
		}

		for _, sub := range subs {
			sendPush(ctx, sub, payload)
		}
	}()
}

func sendPush(ctx context.Context, sub PushSubscription, payload []byte) {
	resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
		Subscriber:      "mailto:admin@varsharaksha.app",
		VAPIDPrivateKey: vapidPrivateKey,
		TTL:             3600,
	})
	if err != nil {
		log.Printf("Failed to send push notification to user %s: %v", sub.UserID.Hex(), err)
		// Expired subscriptions get pruned so the fan-out stays clean.
		if resp != nil && resp.StatusCode == http.StatusGone {
			log.Printf("Push subscription expired for user %s, deleting...", sub.UserID.Hex())
			if _, delErr := database.PushSubs.DeleteOne(ctx, bson.M{"userId": sub.UserID}); delErr != nil {
				log.Printf("Failed to delete expired subscription: %v", delErr)
			}
		}
		return
	}
	resp.Body.Close()
}
