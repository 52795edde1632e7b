// ABOUTME: MongoDB article store using the official Go driver
// ABOUTME: Save is delete-all then insert-all (two steps, not atomic)

package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harper/newsdesk/internal/models"
)

// articleDoc is the stored document shape. Position preserves collection order.
type articleDoc struct {
	Position       int `bson:"position"`
	models.Article `bson:",inline"`
}

// MongoStore implements Store on two MongoDB collections:
// <collection> for the saved articles and <collection>_original for the snapshot.
type MongoStore struct {
	client   *mongo.Client
	current  *mongo.Collection
	original *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:   client,
		current:  db.Collection(collection),
		original: db.Collection(collection + "_original"),
	}, nil
}

func (s *MongoStore) collection(slot string) *mongo.Collection {
	if slot == SlotOriginal {
		return s.original
	}
	return s.current
}

func (s *MongoStore) load(ctx context.Context, slot string) ([]models.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := s.collection(slot).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s articles: %w", slot, err)
	}

	var docs []articleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s articles: %w", slot, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	articles := make([]models.Article, len(docs))
	for i, doc := range docs {
		articles[i] = doc.Article
	}
	return articles, nil
}

func (s *MongoStore) replace(ctx context.Context, slot string, articles []models.Article) error {
	coll := s.collection(slot)
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("delete %s articles: %w", slot, err)
	}
	if len(articles) == 0 {
		return nil
	}

	docs := make([]interface{}, len(articles))
	for i, a := range articles {
		docs[i] = articleDoc{Position: i, Article: a}
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %s articles: %w", slot, err)
	}
	return nil
}

// Load returns the saved collection.
func (s *MongoStore) Load(ctx context.Context) ([]models.Article, error) {
	return s.load(ctx, SlotCurrent)
}

// Save deletes every saved document and inserts the new collection.
func (s *MongoStore) Save(ctx context.Context, articles []models.Article) error {
	return s.replace(ctx, SlotCurrent, articles)
}

// Clear deletes every saved document.
func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.current.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}
	return nil
}

// LoadOriginal returns the snapshot.
func (s *MongoStore) LoadOriginal(ctx context.Context) ([]models.Article, error) {
	return s.load(ctx, SlotOriginal)
}

// SaveOriginal replaces the snapshot documents.
func (s *MongoStore) SaveOriginal(ctx context.Context, articles []models.Article) error {
	return s.replace(ctx, SlotOriginal, articles)
}

// Name returns "mongodb".
func (s *MongoStore) Name() string { return "mongodb" }

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
