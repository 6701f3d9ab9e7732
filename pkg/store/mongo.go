package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
)

// MongoOptions configures a [MongoStore].
type MongoOptions struct {
	URI        string
	Database   string // Default "nodeweave"
	Collection string // Default "documents"
}

// MongoStore keeps documents in a MongoDB collection. Documents are stored
// in their bson form next to the entry fields, so they can be queried in
// place.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the stored shape of one document.
type mongoRecord struct {
	Entry    `bson:",inline"`
	Document *graphio.Document `bson:"document"`
}

// NewMongoStore connects to opts.URI.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	return NewMongoStoreWithClient(client, opts), nil
}

// NewMongoStoreWithClient uses an existing client.
func NewMongoStoreWithClient(client *mongo.Client, opts MongoOptions) *MongoStore {
	db := opts.Database
	if db == "" {
		db = "nodeweave"
	}
	coll := opts.Collection
	if coll == "" {
		coll = "documents"
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(coll)}
}

func (s *MongoStore) Put(ctx context.Context, name string, doc *graphio.Document) error {
	if err := checkPut(name, doc); err != nil {
		return err
	}
	rec := mongoRecord{Entry: entryFor(name, doc, time.Now()), Document: doc}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"name": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save document to mongo: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*graphio.Document, error) {
	if err := errs.ValidateKey(name); err != nil {
		return nil, err
	}
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("load document from mongo: %w", err)
	}
	if rec.Document == nil {
		return nil, errs.New(errs.ErrCodeMalformedDocument, "document %q has no body", name)
	}
	return rec.plainDocument(), nil
}

// plainDocument rewrites node content decoded by the driver into plain maps
// and slices, so it encodes to JSON the way it was written.
func (r *mongoRecord) plainDocument() *graphio.Document {
	for i := range r.Document.Nodes {
		n := &r.Document.Nodes[i]
		if n.Content != nil {
			n.Content = plainValue(n.Content).(map[string]any)
		}
	}
	return r.Document
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case bson.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case bson.A:
		return plainSlice(t)
	case []any:
		return plainSlice(t)
	}
	return v
}

func plainMap(in map[string]any) map[string]any {
	m := make(map[string]any, len(in))
	for k, v := range in {
		m[k] = plainValue(v)
	}
	return m
}

func plainSlice(in []any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = plainValue(v)
	}
	return out
}

func (s *MongoStore) List(ctx context.Context) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"document": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	var out []Entry
	for cur.Next(ctx) {
		var e Entry
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		out = append(out, e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateKey(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return fmt.Errorf("delete document from mongo: %w", err)
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
