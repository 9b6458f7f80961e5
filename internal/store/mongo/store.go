// Package mongo keeps entities in one collection keyed by _id and follows
// changes through a change stream, which needs a replica set.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jwalitptl/mediconsult-api/internal/store"
)

const DefaultCollection = "kv_store"

type Config struct {
	URI        string
	Database   string
	Collection string
}

// Connect opens a client and checks it with a ping.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

type document struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	Origin    string    `bson:"origin"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	origin string
	logger zerolog.Logger
}

var _ store.Store = (*Store)(nil)

func New(client *mongo.Client, cfg Config, logger zerolog.Logger) *Store {
	name := cfg.Collection
	if name == "" {
		name = DefaultCollection
	}
	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(name),
		origin: uuid.NewString(),
		logger: logger,
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	update := bson.M{"$set": bson.M{
		"value":     string(value),
		"origin":    s.origin,
		"updatedAt": time.Now().UTC(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer cur.Close(ctx)

	var keys []string
	for cur.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		keys = append(keys, doc.Key)
	}
	return keys, cur.Err()
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		Key string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument *document `bson:"fullDocument"`
}

// Subscribe watches inserts, updates and deletes. Delete events carry no
// document, so their origin is unknown and they reach every instance,
// including the one that deleted.
func (s *Store) Subscribe(ctx context.Context, fn func(store.Change)) (func(), error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{
		"operationType": bson.M{"$in": bson.A{"insert", "update", "replace", "delete"}},
	}}}}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	subCtx, cancel := context.WithCancel(ctx)
	stream, err := s.coll.Watch(subCtx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stream.Close(context.Background())
		for stream.Next(subCtx) {
			var ev changeEvent
			if err := stream.Decode(&ev); err != nil {
				s.logger.Warn().Err(err).Msg("ignoring undecodable change event")
				continue
			}
			ch := store.Change{Key: ev.DocumentKey.Key, Delete: ev.OperationType == "delete"}
			if ev.FullDocument != nil {
				ch.Origin = ev.FullDocument.Origin
			}
			if ch.Origin == s.origin {
				continue
			}
			fn(ch)
		}
		if err := stream.Err(); err != nil && subCtx.Err() == nil {
			s.logger.Error().Err(err).Msg("change stream stopped")
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
