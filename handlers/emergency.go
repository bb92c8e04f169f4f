package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// EmergencyContact is a tap-to-call helpline entry.
type EmergencyContact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Emoji  string `json:"emoji"`
}

var emergencyContacts = []EmergencyContact{
	{Name: "National Emergency Number", Number: "112", Emoji: "🚨"},
	{Name: "Police", Number: "100", Emoji: "🚓"},
	{Name: "Fire", Number: "101", Emoji: "🔥"},
	{Name: "Ambulance", Number: "108", Emoji: "🚑"},
	{Name: "Disaster Management (GHMC)", Number: "040-21111111", Emoji: "🏛️"},
	{Name: "Women Helpline", Number: "1091", Emoji: "👩"},
}

// GetEmergencyContacts returns the emergency helpline directory.
func GetEmergencyContacts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"contacts": emergencyContacts})
}
