package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"document-chat-platform/models"
)

// MongoMetadataStore keeps document records in the "documents" collection.
type MongoMetadataStore struct {
	collection *mongo.Collection
}

func NewMongoMetadataStore(db *mongo.Database) *MongoMetadataStore {
	return &MongoMetadataStore{collection: db.Collection("documents")}
}

func (s *MongoMetadataStore) Put(ctx context.Context, doc models.Document) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true))
	return err
}

func (s *MongoMetadataStore) Get(ctx context.Context, id string) (models.Document, error) {
	var doc models.Document
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

func (s *MongoMetadataStore) List(ctx context.Context) ([]models.Document, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoMetadataStore) ListByStatus(ctx context.Context, status string) ([]models.Document, error) {
	return s.find(ctx, bson.M{"status": status})
}

func (s *MongoMetadataStore) find(ctx context.Context, filter bson.M) ([]models.Document, error) {
	cursor, err := s.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	documents := make([]models.Document, 0)
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, err
	}
	return documents, nil
}

func (s *MongoMetadataStore) UpdateStatus(ctx context.Context, id, status, errorMessage string, numChunks int) error {
	update := bson.M{
		"status":        status,
		"error_message": errorMessage,
	}
	if status == models.StatusProcessed {
		now := time.Now().UTC()
		update["processed_at"] = now
		update["num_chunks"] = numChunks
	}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoMetadataStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
