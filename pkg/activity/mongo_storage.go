package activity

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoStorage appends records to a MongoDB collection.
type MongoStorage struct {
	collection *mongo.Collection
}

// NewMongoStorage creates storage over the given collection, typically
// db.Collection("user_activity").
func NewMongoStorage(collection *mongo.Collection) *MongoStorage {
	if collection == nil {
		panic("activity: collection cannot be nil")
	}
	return &MongoStorage{collection: collection}
}

// Store implements Storage.
func (s *MongoStorage) Store(ctx context.Context, record Record) error {
	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("activity: insert record: %w", err)
	}
	return nil
}

// Total counts the subject's records created at or after the cutoff.
func (s *MongoStorage) Total(ctx context.Context, subjectID string, since time.Time) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{
		"subject_id": subjectID,
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return 0, fmt.Errorf("activity: count records: %w", err)
	}
	return count, nil
}

// CountByAction groups the subject's records since the cutoff by action tag.
func (s *MongoStorage) CountByAction(ctx context.Context, subjectID string, since time.Time) (map[string]int64, error) {
	cursor, err := s.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"subject_id": subjectID,
			"created_at": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$action",
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("activity: aggregate records: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Action string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("activity: decode aggregation: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Count
	}
	return counts, nil
}
