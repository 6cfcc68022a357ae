package vectorstore

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"document-chat-platform/internal/logger"
	"document-chat-platform/models"
	"document-chat-platform/utils"
)

// MongoIndex is the durable Index implementation. Each named collection
// maps to a Mongo collection "vectors_<name>"; chunk text is compressed
// at rest. Search is an exact scan: entries are read in insertion order
// and scored in-process, which keeps tie-breaking stable and works
// without Atlas vector search.
type MongoIndex struct {
	db *mongo.Database
}

// vectorEntry is the persisted form of an Entry.
type vectorEntry struct {
	ID          interface{} `bson:"_id,omitempty"`
	ChunkID     string      `bson:"chunk_id"`
	DocumentID  string      `bson:"document_id"`
	Order       int         `bson:"order"`
	Text        []byte      `bson:"text"`
	Compression string      `bson:"compression"`
	Source      string      `bson:"source"`
	Vector      []float32   `bson:"vector"`
}

func NewMongoIndex(db *mongo.Database) *MongoIndex {
	return &MongoIndex{db: db}
}

func (m *MongoIndex) collection(name string) *mongo.Collection {
	if name == "" {
		name = DefaultCollection
	}
	return m.db.Collection("vectors_" + name)
}

func (m *MongoIndex) Insert(ctx context.Context, collection string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	col := m.collection(collection)

	batch := make([]mongo.WriteModel, 0, len(entries))
	docIDs := make(map[string]struct{})
	for _, entry := range entries {
		compressed, algorithm, err := utils.CompressText(entry.Chunk.Text)
		if err != nil {
			return fmt.Errorf("compress chunk %s: %w", entry.Chunk.ChunkID, err)
		}
		doc := vectorEntry{
			ChunkID:     entry.Chunk.ChunkID,
			DocumentID:  entry.Chunk.DocumentID,
			Order:       entry.Chunk.Order,
			Text:        compressed,
			Compression: string(algorithm),
			Source:      entry.Chunk.Source,
			Vector:      Normalize(entry.Vector),
		}
		docIDs[entry.Chunk.DocumentID] = struct{}{}
		batch = append(batch, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"chunk_id": entry.Chunk.ChunkID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	_, err := col.BulkWrite(ctx, batch, options.BulkWrite().SetOrdered(true))
	if err != nil {
		// All-or-nothing per document: a partial batch must not leave a
		// half-indexed document behind.
		for docID := range docIDs {
			if _, delErr := col.DeleteMany(context.WithoutCancel(ctx), bson.M{"document_id": docID}); delErr != nil {
				logger.Error("rollback of partial insert failed", "document_id", docID, "error", delErr)
			}
		}
		return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return nil
}

func (m *MongoIndex) Search(ctx context.Context, collection string, vector []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	col := m.collection(collection)
	query := Normalize(vector)

	// _id order is insertion order for generated ObjectIDs, which is what
	// stable tie-breaking needs.
	cursor, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	defer cursor.Close(ctx)

	var results []SearchResult
	for cursor.Next(ctx) {
		var entry vectorEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
		}
		text, err := utils.DecompressText(entry.Text, utils.CompressionAlgorithm(entry.Compression))
		if err != nil {
			return nil, fmt.Errorf("decompress chunk %s: %w", entry.ChunkID, err)
		}
		results = append(results, SearchResult{
			Chunk: models.Chunk{
				DocumentID: entry.DocumentID,
				ChunkID:    entry.ChunkID,
				Order:      entry.Order,
				Text:       text,
				Source:     entry.Source,
			},
			Score: dot(entry.Vector, query),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (m *MongoIndex) Delete(ctx context.Context, collection, documentID string) (int64, error) {
	res, err := m.collection(collection).DeleteMany(ctx, bson.M{"document_id": documentID})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return res.DeletedCount, nil
}

func (m *MongoIndex) Count(ctx context.Context, collection, documentID string) (int64, error) {
	filter := bson.M{}
	if documentID != "" {
		filter["document_id"] = documentID
	}
	count, err := m.collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return count, nil
}
