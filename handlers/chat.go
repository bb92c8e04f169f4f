package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"varsharaksha/services"

	"github.com/gin-gonic/gin"
)

// GetAssistantIntro returns the assistant's greeting for a fresh chat.
func GetAssistantIntro(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"text":  services.IntroMessage,
		"nodes": services.FormatReply(services.IntroMessage),
	})
}

// AskAssistant forwards a message to the safety assistant and returns its
// reply both raw and pre-formatted. The assistant degrades to canned
// fallback text instead of failing, so this endpoint always answers 200.
func AskAssistant(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	if assistantClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply := assistantClient.Reply(ctx, message)
	c.JSON(http.StatusOK, gin.H{
		"text":  reply,
		"nodes": services.FormatReply(reply),
	})
}
