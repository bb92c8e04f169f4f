package feed

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"varsharaksha/models"
)

// DefaultWindow is the rolling window the community feed shows: posts
// created within the last 24 hours.
const DefaultWindow = 24 * time.Hour

// Scope selects which slice of the posts collection a view watches.
type Scope struct {
	// Window limits results to posts created within the duration before
	// the moment the query is built. Zero means no time bound.
	Window time.Duration
	// AuthorID scopes to one author's posts (the profile view).
	AuthorID *primitive.ObjectID
	// LocatedOnly keeps only posts with both coordinates (the map view).
	LocatedOnly bool
}

// Query is a frozen store query: filter plus optional sort order. The feed
// relies on the store's order; the author scope deliberately has no sort
// clause and is sorted defensively after the fetch.
type Query struct {
	Filter bson.M
	Sort   bson.D
}

// BuildQuery materializes the scope at a single instant. The window cutoff
// is computed here, once, and never re-evaluated for the lifetime of a
// subscription: an open feed is allowed to keep posts that age out of the
// window until the next mount.
func (s Scope) BuildQuery(now time.Time) Query {
	filter := bson.M{}
	if s.Window > 0 {
		cutoff := now.Add(-s.Window).UnixMilli()
		filter["createdAt"] = bson.M{"$gte": cutoff}
	}
	if s.AuthorID != nil {
		filter["authorId"] = *s.AuthorID
	}
	if s.LocatedOnly {
		filter["location.lat"] = bson.M{"$ne": nil}
		filter["location.lon"] = bson.M{"$ne": nil}
	}

	q := Query{Filter: filter}
	if s.AuthorID == nil {
		q.Sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	return q
}

// SortByCreatedDesc orders posts newest first by createdAt seconds. Used as
// a fallback for queries that carry no server-side order clause.
func SortByCreatedDesc(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt/1000 > posts[j].CreatedAt/1000
	})
}
