package preset

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/gridkit/pkg/errors"
)

// DefaultCollection is the MongoDB collection holding presets.
const DefaultCollection = "presets"

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string // defaults to DefaultCollection
}

// MongoStore keeps presets in a MongoDB collection with a unique index on
// name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to MongoDB and ensures the name index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create preset name index: %w", err)
	}

	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

// Get returns the preset with the given ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Preset, error) {
	return s.findOne(ctx, bson.M{"_id": id}, id)
}

// GetByName returns the preset with the given name.
func (s *MongoStore) GetByName(ctx context.Context, name string) (*Preset, error) {
	if err := errors.ValidatePresetName(name); err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"name": name}, name)
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M, key string) (*Preset, error) {
	var p Preset
	err := s.coll.FindOne(ctx, filter).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("find preset %s: %w", key, err)
	}
	return &p, nil
}

// List returns all presets sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]*Preset, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer cur.Close(ctx)

	var presets []*Preset
	if err := cur.All(ctx, &presets); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return presets, nil
}

// Save creates or replaces the preset with p.Name.
func (s *MongoStore) Save(ctx context.Context, p *Preset) error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}

	existing, err := s.GetByName(ctx, p.Name)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	if err := prepare(p, existing, s.now().UTC()); err != nil {
		return err
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"name": p.Name}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save preset %s: %w", p.Name, err)
	}
	return nil
}

// Delete removes the preset with the given name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidatePresetName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("delete preset %s: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
