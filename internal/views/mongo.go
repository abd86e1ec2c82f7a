// Package views stores page-view events in MongoDB.
package views

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/portfolio/internal/models"
)

const viewsCollection = "views"

type Store struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	views  *mongodriver.Collection
}

// New connects, pings the primary and makes sure the indexes exist.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(dbName)
	s := &Store{client: cli, db: db, views: db.Collection(viewsCollection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	idx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("project_timestamp_desc"),
		},
	}
	if _, err := s.views.Indexes().CreateMany(ctx, idx); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

func projectFilter(projectID *string) bson.M {
	if projectID == nil {
		// Matches both an explicit null and a missing field.
		return bson.M{"projectId": nil}
	}
	return bson.M{"projectId": *projectID}
}

func (s *Store) Record(ctx context.Context, v *models.View) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}
	if _, err := s.views.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("mongo insert view: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, projectID *string) ([]models.View, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := s.views.Find(ctx, projectFilter(projectID), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find views: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.View{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode views: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, projectID *string) (int64, error) {
	n, err := s.views.CountDocuments(ctx, projectFilter(projectID))
	if err != nil {
		return 0, fmt.Errorf("mongo count views: %w", err)
	}
	return n, nil
}

func dailyPipeline(projectID *string, since time.Time) mongodriver.Pipeline {
	match := projectFilter(projectID)
	match["timestamp"] = bson.M{"$gte": since.UTC()}

	return mongodriver.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$timestamp"}}},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (s *Store) Daily(ctx context.Context, projectID *string, since time.Time) ([]models.DailyCount, error) {
	cur, err := s.views.Aggregate(ctx, dailyPipeline(projectID, since))
	if err != nil {
		return nil, fmt.Errorf("mongo aggregate views: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.DailyCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode daily views: %w", err)
	}
	return out, nil
}
