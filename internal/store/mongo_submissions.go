package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

const (
	submissionsCollection = "submissions"
	mongoTimeout          = 10 * time.Second
)

// submissionDoc adds the Mongo _id to the stored record.
type submissionDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	models.Submission `bson:",inline"`
}

func (d submissionDoc) record() models.Submission {
	s := d.Submission
	s.ID = d.ID.Hex()
	return s
}

// MongoSubmissions keeps submissions in the "submissions" collection.
type MongoSubmissions struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoSubmissions(db *mongo.Database) *MongoSubmissions {
	return &MongoSubmissions{col: db.Collection(submissionsCollection), now: time.Now}
}

var _ SubmissionStore = (*MongoSubmissions)(nil)

// EnsureIndexes configures indexes for the submissions collection.
// Called on startup from main after Mongo has connected. The (user_id, date)
// index is deliberately not unique: the one-per-day rule is kept by callers.
func (m *MongoSubmissions) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().SetName("idx_user_date"),
		},
		{
			Keys: bson.D{
				{Key: "date", Value: -1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_date_created"),
		},
	}

	for _, idx := range indexes {
		if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

func (m *MongoSubmissions) CreateSubmission(ctx context.Context, sub models.Submission) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	now := m.now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	res, err := m.col.InsertOne(ctx, submissionDoc{Submission: sub})
	if err != nil {
		return "", fmt.Errorf("failed to insert submission: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id.Hex(), nil
}

func (m *MongoSubmissions) UpdateSubmission(ctx context.Context, id string, patch models.SubmissionPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	set := bson.M{}
	for k, v := range patch.Fields() {
		set[k] = v
	}
	set["updated_at"] = m.now().UTC()

	res, err := m.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoSubmissions) GetSubmissionByUserAndDate(ctx context.Context, userID, date string) (*models.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc submissionDoc
	err := m.col.FindOne(ctx, bson.M{"user_id": userID, "date": date}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	s := doc.record()
	return &s, nil
}

func (m *MongoSubmissions) ListSubmissionsByUser(ctx context.Context, userID string, limit int) ([]models.Submission, error) {
	return m.find(ctx, bson.M{"user_id": userID}, newestDateFirst(limit))
}

func (m *MongoSubmissions) ListAllSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	return m.find(ctx, bson.M{}, newestDateFirst(limit))
}

func (m *MongoSubmissions) ListSubmissionsByDate(ctx context.Context, date string) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return m.find(ctx, bson.M{"date": date}, opts)
}

func (m *MongoSubmissions) ListSubmissionsByDateRange(ctx context.Context, start, end string) ([]models.Submission, error) {
	filter := bson.M{"date": bson.M{"$gte": start, "$lte": end}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	return m.find(ctx, filter, opts)
}

func newestDateFirst(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

func (m *MongoSubmissions) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Submission, 0)
	for cur.Next(ctx) {
		var doc submissionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode submission: %w", err)
		}
		out = append(out, doc.record())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
