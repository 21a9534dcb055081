// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/mongorest/internal/database"
)

// MongoUserStore reads users from a collection of {_id, email, password} documents.
type MongoUserStore struct {
	resolver   *database.Resolver
	collection string
}

// NewMongoUserStore creates a user store over collection in the resolver's database.
func NewMongoUserStore(resolver *database.Resolver, collection string) *MongoUserStore {
	return &MongoUserStore{resolver: resolver, collection: collection}
}

type userDocument struct {
	ID       interface{} `bson:"_id"`
	Email    string      `bson:"email"`
	Password string      `bson:"password"`
}

// FindByEmail returns the user with the given email.
func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	c, err := s.resolver.Collection(ctx, "", s.collection)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	err = c.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &User{ID: idString(doc.ID), Email: doc.Email, Password: doc.Password}, nil
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// MongoTokenStore keeps tokens in a collection of the token database.
type MongoTokenStore struct {
	resolver   *database.Resolver
	collection string
}

// NewMongoTokenStore creates a token store over collection in the resolver's database.
func NewMongoTokenStore(resolver *database.Resolver, collection string) *MongoTokenStore {
	return &MongoTokenStore{resolver: resolver, collection: collection}
}

func (s *MongoTokenStore) coll(ctx context.Context) (*mongo.Collection, error) {
	return s.resolver.Collection(ctx, "", s.collection)
}

// EnsureIndexes creates the unique token index and the user lookup index.
func (s *MongoTokenStore) EnsureIndexes(ctx context.Context) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	_, err = c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create token indexes: %w", err)
	}
	return nil
}

// Create stores a new token.
func (s *MongoTokenStore) Create(ctx context.Context, token *Token) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	if _, err := c.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// Get retrieves a token.
func (s *MongoTokenStore) Get(ctx context.Context, token string) (*Token, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}

	var t Token
	err = c.FindOne(ctx, bson.D{{Key: "token", Value: token}}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if t.IsExpired() {
		return nil, ErrTokenExpired
	}
	return &t, nil
}

// FindByUser returns the newest unexpired token of userID.
func (s *MongoTokenStore) FindByUser(ctx context.Context, userID string) (*Token, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.D{
		{Key: "user_id", Value: userID},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "expires_at", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: time.Now().UTC()}}}},
		}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var t Token
	err = c.FindOne(ctx, filter, opts).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user token: %w", err)
	}
	return &t, nil
}

// Delete removes a token.
func (s *MongoTokenStore) Delete(ctx context.Context, token string) error {
	c, err := s.coll(ctx)
	if err != nil {
		return err
	}
	if _, err := c.DeleteOne(ctx, bson.D{{Key: "token", Value: token}}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// CleanupExpired removes tokens whose expiry has passed.
func (s *MongoTokenStore) CleanupExpired(ctx context.Context) (int, error) {
	c, err := s.coll(ctx)
	if err != nil {
		return 0, err
	}
	res, err := c.DeleteMany(ctx, bson.D{{Key: "expires_at", Value: bson.D{{Key: "$lte", Value: time.Now().UTC()}}}})
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return int(res.DeletedCount), nil
}
