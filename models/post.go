package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Post categories. The category is fixed at creation time and decides which
// interaction a post carries: Alerts collect agree/disagree votes, Requests
// and Offers collect responses.
const (
	CategoryAlert   = "Alert"
	CategoryRequest = "Request"
	CategoryOffer   = "Offer"
)

type Location struct {
	Name string   `bson:"name" json:"name"`
	Lat  *float64 `bson:"lat" json:"lat"`
	Lon  *float64 `bson:"lon" json:"lon"`
}

// HasCoordinates reports whether the location can be pinned on a map.
// Geocoding is best-effort, so a location may carry a name only.
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Lat != nil && l.Lon != nil
}

type Response struct {
	ResponderID   primitive.ObjectID `bson:"responderId" json:"responderId"`
	ResponderName string             `bson:"responderName" json:"responderName"`
	Text          string             `bson:"text" json:"text"`
	CreatedAt     int64              `bson:"createdAt" json:"createdAt"`
}

type Post struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID       primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName     string             `bson:"authorName" json:"authorName"`
	AuthorPhotoURL string             `bson:"authorPhotoURL" json:"authorPhotoURL"`
	Content        string             `bson:"content" json:"content"`
	Category       string             `bson:"category" json:"category"`
	ImageURL       string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Location       *Location          `bson:"location,omitempty" json:"location,omitempty"`
	// CreatedAt is unix milliseconds, assigned on insert. Zero means the
	// document has not been confirmed yet and renders as "just now".
	CreatedAt int64                `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Disagrees []primitive.ObjectID `bson:"disagrees" json:"disagrees"`
	Responses []Response           `bson:"responses" json:"responses"`
}

func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	return containsID(p.Likes, userID)
}

func (p *Post) DisagreedBy(userID primitive.ObjectID) bool {
	return containsID(p.Disagrees, userID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
