package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"varsharaksha/feed"
	"varsharaksha/models"
)

// PostStore runs feed queries against the posts collection. It satisfies
// feed.Lister.
type PostStore struct {
	coll *mongo.Collection
}

func NewPostStore() *PostStore {
	return &PostStore{coll: Posts}
}

func (s *PostStore) ListPosts(ctx context.Context, q feed.Query) ([]models.Post, error) {
	opts := options.Find()
	if q.Sort != nil {
		opts.SetSort(q.Sort)
	}

	cursor, err := s.coll.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// WatchPosts opens a change stream on the posts collection and coalesces
// every change event into a nudge. The channel closes when the stream dies
// or ctx is cancelled. Callers fall back to polling when change streams are
// unavailable (standalone mongod).
func WatchPosts(ctx context.Context) (<-chan struct{}, error) {
	stream, err := Posts.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer stream.Close(ctx)
		for stream.Next(ctx) {
			var ev bson.M
			_ = stream.Decode(&ev)
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch, nil
}
