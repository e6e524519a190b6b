package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"worktime/activity"
)

// ConnectMongo opens a client and checks the primary is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// MongoSource reads worker documents and per-day history documents. Both
// go through the same decoder as the REST feed via relaxed extended JSON.
type MongoSource struct {
	workers *mongo.Collection
	history *mongo.Collection
	loc     *time.Location
	logger  *slog.Logger
}

// NewMongoSource reads string timestamps without a zone in loc.
func NewMongoSource(db *mongo.Database, loc *time.Location, logger *slog.Logger) *MongoSource {
	return &MongoSource{
		workers: db.Collection("workers"),
		history: db.Collection("activity_history"),
		loc:     loc,
		logger:  logger,
	}
}

func (s *MongoSource) Workers(ctx context.Context) ([]WorkerResult, error) {
	cursor, err := s.workers.Find(ctx, bson.M{})
	if err != nil {
		return nil, &FetchError{Op: "find workers", Err: err}
	}
	defer cursor.Close(ctx)

	var results []WorkerResult
	for cursor.Next(ctx) {
		doc, err := bson.MarshalExtJSON(cursor.Current, false, false)
		if err != nil {
			results = append(results, WorkerResult{Err: fmt.Errorf("worker document: %w", err)})
			continue
		}
		results = append(results, DecodeWorker(gjson.ParseBytes(doc), s.loc))
	}
	if err := cursor.Err(); err != nil {
		return nil, &FetchError{Op: "find workers", Err: err}
	}
	return results, nil
}

func (s *MongoSource) History(ctx context.Context, workerID string, from activity.Date) ([]DayResult, error) {
	filter := bson.M{
		"worker_id": workerID,
		"date":      bson.M{"$gte": string(from)},
	}
	cursor, err := s.history.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, &FetchError{Op: "find history", Err: err}
	}
	defer cursor.Close(ctx)

	var results []DayResult
	for cursor.Next(ctx) {
		doc, err := bson.MarshalExtJSON(cursor.Current, false, false)
		if err != nil {
			results = append(results, DayResult{Err: fmt.Errorf("history document: %w", err)})
			continue
		}
		results = append(results, DecodeDay(gjson.ParseBytes(doc), s.loc))
	}
	if err := cursor.Err(); err != nil {
		return nil, &FetchError{Op: "find history", Err: err}
	}
	s.logger.Debug("history", slog.String("worker", workerID), slog.Int("days", len(results)))
	return results, nil
}
