// Package mongo provides a MongoDB-backed character repository.
//
// Characters live in one collection with a unique index on the headword.
// Integer IDs come from a counters collection so records keep the same
// shape as the other backends.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/hanzitree/pkg/hanzi"
	"github.com/matzehuels/hanzitree/pkg/store"
)

const (
	// DefaultDatabase is used when Config.Database is empty.
	DefaultDatabase = "hanzitree"

	charactersCollection = "characters"
	countersCollection   = "counters"
	characterCounter     = "characters"

	connectTimeout = 10 * time.Second
)

// Config configures the MongoDB connection.
type Config struct {
	URI      string
	Database string
}

// Store persists characters in MongoDB.
type Store struct {
	client   *mongo.Client
	chars    *mongo.Collection
	counters *mongo.Collection
}

// Open connects to MongoDB and ensures the indexes exist.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:   client,
		chars:    db.Collection(charactersCollection),
		counters: db.Collection(countersCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.chars.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "character", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("character_unique"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("created_at_id"),
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]hanzi.Character, error) {
	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(max(opts.Offset, 0)))
	switch {
	case opts.Limit == 0:
		find.SetLimit(store.DefaultLimit)
	case opts.Limit > 0:
		find.SetLimit(int64(opts.Limit))
	}

	cur, err := s.chars.Find(ctx, bson.D{}, find)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	out := []hanzi.Character{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	for i := range out {
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.D) (hanzi.Character, error) {
	var c hanzi.Character
	if err := s.chars.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return hanzi.Character{}, store.ErrNotFound
		}
		return hanzi.Character{}, fmt.Errorf("get character: %w", err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (s *Store) Get(ctx context.Context, id int64) (hanzi.Character, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetByCharacter(ctx context.Context, character string) (hanzi.Character, error) {
	return s.findOne(ctx, bson.D{{Key: "character", Value: strings.TrimSpace(character)}})
}

func (s *Store) Create(ctx context.Context, w hanzi.Word) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	w, err := store.Prepare(w)
	if err != nil {
		return hanzi.Character{}, err
	}
	// Check first so a duplicate does not burn a counter value.
	if _, err := s.GetByCharacter(ctx, w.Character); err == nil {
		return hanzi.Character{}, store.ErrAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return hanzi.Character{}, err
	}

	id, err := s.nextID(ctx)
	if err != nil {
		return hanzi.Character{}, err
	}
	c := hanzi.Character{ID: id, Word: w, CreatedAt: store.Now()}
	if _, err := s.chars.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return hanzi.Character{}, store.ErrAlreadyExists
		}
		return hanzi.Character{}, fmt.Errorf("create character: %w", err)
	}
	return c, nil
}

func (s *Store) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: characterCounter}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	return counter.Seq, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (hanzi.Character, error) {
	var c hanzi.Character
	if err := s.chars.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return hanzi.Character{}, store.ErrNotFound
		}
		return hanzi.Character{}, fmt.Errorf("delete character: %w", err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.chars.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count characters: %w", err)
	}
	return int(n), nil
}

var _ store.Repository = (*Store)(nil)
