package ledger

import (
	"context"
	stderrors "errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/facture/pkg/errors"
)

// MongoCollection is the collection records are stored in.
const MongoCollection = "invoices"

// MongoStore keeps records in MongoDB, keyed by invoice identifier.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the stored shape: amounts as strings, year denormalized
// for filtering.
type mongoRecord struct {
	InvoiceID   string    `bson:"_id"`
	RecordID    string    `bson:"record_id"`
	Kind        string    `bson:"kind"`
	Client      string    `bson:"client"`
	Subject     string    `bson:"subject,omitempty"`
	Date        time.Time `bson:"date"`
	Year        int       `bson:"year"`
	Total       string    `bson:"total"`
	TotalTax    string    `bson:"total_tax"`
	Currency    string    `bson:"currency"`
	Path        string    `bson:"path,omitempty"`
	Fingerprint string    `bson:"fingerprint"`
	CreatedAt   time.Time `bson:"created_at"`
}

// OpenMongo connects to uri and uses the invoices collection of database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = "facture"
	}

	var client *mongo.Client
	err := RetryWithBackoff(ctx, func() error {
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(5*time.Second))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "mongo uri")
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo"))
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
	}, nil
}

// Put upserts rec. An existing record keeps its ID.
func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	if old, err := s.Get(ctx, rec.InvoiceID); err == nil {
		rec.ID = old.ID
	}
	doc := toMongo(rec)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.InvoiceID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "store %s", rec.InvoiceID)
	}
	return nil
}

// Get fetches the record of invoiceID.
func (s *MongoStore) Get(ctx context.Context, invoiceID string) (*Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": invoiceID}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(invoiceID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", invoiceID)
	}
	return doc.record(), nil
}

// List returns the matching records ordered by date.
func (s *MongoStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	filter := bson.M{}
	if f.Year != 0 {
		filter["year"] = f.Year
	}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}
	if f.Client != "" {
		filter["client"] = bson.M{"$regex": regexp.QuoteMeta(f.Client), "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list records")
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list records")
	}

	recs := make([]*Record, len(docs))
	for i := range docs {
		recs[i] = docs[i].record()
	}
	return recs, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toMongo(rec *Record) mongoRecord {
	return mongoRecord{
		InvoiceID:   rec.InvoiceID,
		RecordID:    rec.ID,
		Kind:        rec.Kind,
		Client:      rec.Client,
		Subject:     rec.Subject,
		Date:        rec.Date,
		Year:        rec.Date.Year(),
		Total:       rec.Total.String(),
		TotalTax:    rec.TotalTax.String(),
		Currency:    rec.Currency,
		Path:        rec.Path,
		Fingerprint: rec.Fingerprint,
		CreatedAt:   rec.CreatedAt,
	}
}

func (d mongoRecord) record() *Record {
	total, _ := decimal.NewFromString(d.Total)
	totalTax, _ := decimal.NewFromString(d.TotalTax)
	return &Record{
		ID:          d.RecordID,
		InvoiceID:   d.InvoiceID,
		Kind:        d.Kind,
		Client:      d.Client,
		Subject:     d.Subject,
		Date:        d.Date.UTC(),
		Total:       total,
		TotalTax:    totalTax,
		Currency:    d.Currency,
		Path:        d.Path,
		Fingerprint: d.Fingerprint,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
