package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"document-chat-platform/models"
)

// MongoHistoryStore appends chat records to the "chat_history" collection.
type MongoHistoryStore struct {
	collection *mongo.Collection
}

func NewMongoHistoryStore(db *mongo.Database) *MongoHistoryStore {
	return &MongoHistoryStore{collection: db.Collection("chat_history")}
}

func (s *MongoHistoryStore) Append(ctx context.Context, record models.ChatRecord) error {
	_, err := s.collection.InsertOne(ctx, record)
	return err
}

func (s *MongoHistoryStore) List(ctx context.Context, limit int) ([]models.ChatRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	cursor, err := s.collection.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]models.ChatRecord, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
