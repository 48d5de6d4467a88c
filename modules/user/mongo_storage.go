package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rampagehq/userapi/pipeline"
)

// profileFieldPaths maps payload field names to account document paths.
var profileFieldPaths = map[string]string{
	"name":        "name",
	"email":       "email",
	"phoneNumber": "phone_number",
	"dateOfBirth": "date_of_birth",
	"bio":         "bio",
	"avatar":      "avatar_url",
}

var preferenceFieldPaths = map[string]string{
	"currency": "preferences.currency",
	"language": "preferences.language",
	"timezone": "preferences.timezone",
	"theme":    "preferences.theme",
}

// MongoStorage persists accounts in a MongoDB collection. Duplicate-key
// failures (the unique email index) pass through unchanged for the
// translator to map.
type MongoStorage struct {
	coll *mongo.Collection
}

func NewMongoStorage(coll *mongo.Collection) *MongoStorage {
	if coll == nil {
		panic("user: mongo collection is required")
	}
	return &MongoStorage{coll: coll}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (s *MongoStorage) Account(ctx context.Context, id string) (*Account, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var acct Account
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &acct, nil
}

func (s *MongoStorage) Status(ctx context.Context, id string) (string, error) {
	oid, err := objectID(id)
	if err != nil {
		return "", err
	}

	var doc struct {
		Status string `bson:"status"`
	}
	err = s.coll.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"status": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find account status: %w", err)
	}
	return doc.Status, nil
}

func (s *MongoStorage) UpdateProfile(ctx context.Context, id string, fields map[string]string) (*Account, error) {
	return s.applyUpdate(ctx, id, fields, profileFieldPaths)
}

func (s *MongoStorage) UpdatePreferences(ctx context.Context, id string, fields map[string]string) (*Account, error) {
	return s.applyUpdate(ctx, id, fields, preferenceFieldPaths)
}

func (s *MongoStorage) applyUpdate(ctx context.Context, id string, fields map[string]string, paths map[string]string) (*Account, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}
	for field, value := range fields {
		path, known := paths[field]
		if !known {
			continue
		}
		set[path] = value
	}

	var acct Account
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		// Unique-index violations surface here on email changes.
		return nil, err
	}
	return &acct, nil
}

func (s *MongoStorage) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.setFields(ctx, id, bson.M{"password_hash": passwordHash})
}

func (s *MongoStorage) SetStatus(ctx context.Context, id, status, reason string) error {
	set := bson.M{"status": status}
	switch status {
	case pipeline.StatusDeactivated:
		set["deactivation_reason"] = reason
	case pipeline.StatusPendingDeletion:
		set["deletion_reason"] = reason
	}
	return s.setFields(ctx, id, set)
}

func (s *MongoStorage) SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	return s.setFields(ctx, id, bson.M{
		"verification_code":            code,
		"verification_code_expires_at": expiresAt,
	})
}

func (s *MongoStorage) ClearVerificationCode(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$unset": bson.M{
				"verification_code":            "",
				"verification_code_expires_at": "",
			},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("clear verification code: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *MongoStorage) setFields(ctx context.Context, id string, set bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	set["updated_at"] = time.Now()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// objectID parses the subject id, reporting a malformed id as a cast
// failure rather than an internal error.
func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, &pipeline.CastError{Value: id}
	}
	return oid, nil
}
