package store

import (
	"context"

	"mealbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

// EnsureIndexes creates the date index used by every range query. Call once
// at startup.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	idxs := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("date_1"),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
	}
	_, err := s.coll.Indexes().CreateMany(ctx, idxs)
	return wrap("ensure indexes", err)
}

func (s *Mongo) Insert(ctx context.Context, b *models.Booking) (string, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if _, err := s.coll.InsertOne(ctx, b); err != nil {
		return "", wrap("insert", err)
	}
	return b.ID, nil
}

func (s *Mongo) Find(ctx context.Context, r *models.DateRange) ([]models.Booking, error) {
	filter := bson.M{}
	if r != nil {
		filter = rangeFilter(*r)
	}
	// _id is an ObjectID minted on insert, so it breaks createdAt ties in
	// insertion order
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap("find", err)
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, wrap("find", err)
	}
	return bookings, nil
}

func (s *Mongo) DeleteMany(ctx context.Context, r models.DateRange) (int64, error) {
	if r.Empty() {
		return 0, nil
	}
	res, err := s.coll.DeleteMany(ctx, rangeFilter(r))
	if err != nil {
		return 0, wrap("delete", err)
	}
	return res.DeletedCount, nil
}

func rangeFilter(r models.DateRange) bson.M {
	return bson.M{
		"date": bson.M{
			"$gte": r.From,
			"$lt":  r.To,
		},
	}
}
