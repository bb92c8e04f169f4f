package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Announcement is a curated civic notice shown on the official info page.
type Announcement struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Severity  string `json:"severity"`
	Timestamp string `json:"timestamp"`
	ImageURL  string `json:"imageUrl"`
}

// NewsArticle is a curated in-depth article link.
type NewsArticle struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Link     string `json:"link"`
	ImageURL string `json:"imageUrl"`
}

// The announcement and news content is editorially curated, not fetched.
var announcements = []Announcement{
	{
		ID:        1,
		Title:     "Severe Waterlogging Reported",
		Content:   "The underpass at Paradise Circle is completely flooded. Please avoid the area and use alternative routes.",
		Severity:  "High",
		Timestamp: "2025-10-05T15:10:00Z",
		ImageURL:  "https://c.ndtvimg.com/2025-08/flhtpsh4_hyderabad_625x300_04_August_25.jpg?im=FeatureCrop,algorithm=dnn,width=1200,height=738",
	},
	{
		ID:        2,
		Title:     "Potential Power Outages",
		Content:   "Due to heavy winds, there may be intermittent power cuts in the Begumpet area. Teams are on standby.",
		Severity:  "Medium",
		Timestamp: "2025-10-05T14:30:00Z",
		ImageURL:  "https://static.toiimg.com/thumb/msid-123394513,width-1280,height-720,resizemode-72/123394513.jpg",
	},
	{
		ID:        3,
		Title:     "Relief Camp Information",
		Content:   "A temporary relief camp has been set up at the community hall. Water and first-aid are available.",
		Severity:  "Low",
		Timestamp: "2025-10-05T13:00:00Z",
		ImageURL:  "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcSYdRR_hM0OrZbmEt7Vgm6XhvLjVsnMDINPrg&s",
	},
}

var newsSummary = `<h3>Overall Situation:</h3><p>Following overnight showers, GHMC has reported moderate waterlogging in low-lying areas, particularly around Kukatpally and LB Nagar. The India Meteorological Department (IMD) has issued a Yellow Alert for the city, forecasting further light to moderate rain throughout the day.</p><br /><h3>Traffic & Travel Advisories:</h3><p>Residents are advised to anticipate traffic congestion on major routes. Key areas like Paradise Circle and parts of the Outer Ring Road are experiencing slower than usual traffic. Commuters are encouraged to check live traffic updates before starting their journey.</p>`

var newsArticles = []NewsArticle{
	{
		Title:    "Hyderabad Rains: City on Yellow Alert, IMD Predicts More Showers",
		Summary:  "The IMD has issued a yellow alert for Hyderabad, forecasting continued rainfall and potential thunderstorms over the next 24 hours.",
		Link:     "https://timesofindia.indiatimes.com/city/hyderabad/hyderabad-rains-city-on-yellow-alert-imd-predicts-more-showers/articleshow/104169554.cms",
		ImageURL: "https://static.toiimg.com/thumb/msid-104169555,width-1280,height-720,resizemode-75/104169555.jpg",
	},
	{
		Title:    "Waterlogging in Several Areas After Overnight Rain, GHMC Teams on Ground",
		Summary:  "Low-lying areas in Kukatpally, Miyapur, and LB Nagar have reported significant waterlogging, prompting GHMC to deploy disaster response teams.",
		Link:     "https://www.thehindu.com/news/cities/Hyderabad/waterlogging-in-several-areas-of-hyderabad-after-overnight-rain/article6738437.ece",
		ImageURL: "https://th-i.thgim.com/public/incoming/p6y3q1/article67384370.ece/alternates/LANDSCAPE_1200/hyderabad%20rains.jpg",
	},
	{
		Title:    "Traffic Slows Down in Hyderabad Amidst Incessant Rains",
		Summary:  "Major junctions and IT corridors are facing traffic snarls due to waterlogging and ongoing showers, with traffic police issuing advisories.",
		Link:     "https://www.deccanchronicle.com/nation/in-other-news/051025/hyderabad-traffic-slows-down-amidst-incessant-rains.html",
		ImageURL: "https://s3.ap-southeast-1.amazonaws.com/images.deccanchronicle.com/dc-Cover-b4p0k0i7r8k2p8n8f3f8j8k8v1-20180911010204.Medi.jpeg",
	},
}

// GetWeather proxies a current-conditions lookup for the caller's
// coordinates so the OpenWeather key stays server side.
func GetWeather(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	if weatherClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Weather service is not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	weather, err := weatherClient.Current(ctx, lat, lon)
	if err != nil {
		log.Printf("[GetWeather] lookup failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch weather data."})
		return
	}

	c.JSON(http.StatusOK, weather)
}

// GetOfficialInfo returns the curated announcements and news content.
func GetOfficialInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"announcements": announcements,
		"newsSummary":   newsSummary,
		"articles":      newsArticles,
	})
}
