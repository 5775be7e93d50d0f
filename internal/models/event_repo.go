package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col := mdb.collection(EventsCollection)

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Bookings == nil {
		event.Bookings = []primitive.ObjectID{}
	}

	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("error inserting event: %w", err)
	}

	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	col := mdb.collection(EventsCollection)

	var event Event
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding event by ID: %w", err)
	}

	return &event, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	return mdb.findEvents(ctx, bson.M{})
}

func (mdb *MongodbRepo) ListEventsByHost(ctx context.Context, hostID primitive.ObjectID) ([]*Event, error) {
	return mdb.findEvents(ctx, bson.M{"host_id": hostID})
}

func (mdb *MongodbRepo) findEvents(ctx context.Context, filter bson.M) ([]*Event, error) {
	col := mdb.collection(EventsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	for cursor.Next(ctx) {
		var event Event
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("error decoding event: %w", err)
		}
		events = append(events, &event)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return events, nil
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*Event, error) {
	col := mdb.collection(EventsCollection)

	update["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Event
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}

	return &updated, nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col := mdb.collection(EventsCollection)

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrEventNotFound
	}

	return nil
}

// ReserveSeat is the single conditional write that keeps concurrent bookings
// from overselling: the filter only matches while seats_filled < seats_total,
// so exactly one of N racing callers wins the last seat.
func (mdb *MongodbRepo) ReserveSeat(ctx context.Context, eventID, bookingID primitive.ObjectID) (bool, error) {
	col := mdb.collection(EventsCollection)

	filter := bson.M{
		"_id":   eventID,
		"$expr": bson.M{"$lt": bson.A{"$seats_filled", "$seats_total"}},
	}
	update := bson.M{
		"$inc":  bson.M{"seats_filled": 1},
		"$push": bson.M{"bookings": bookingID},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	res, err := col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error reserving seat: %w", err)
	}

	return res.ModifiedCount == 1, nil
}

func (mdb *MongodbRepo) ReleaseSeat(ctx context.Context, eventID, bookingID primitive.ObjectID) error {
	col := mdb.collection(EventsCollection)

	_, err := col.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$pull": bson.M{"bookings": bookingID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("error releasing seat: %w", err)
	}

	// Guarded decrement keeps the counter from ever going negative.
	_, err = col.UpdateOne(ctx,
		bson.M{"_id": eventID, "seats_filled": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"seats_filled": -1}},
	)
	if err != nil {
		return fmt.Errorf("error decrementing seats: %w", err)
	}

	return nil
}

func (mdb *MongodbRepo) SetSeatsFilled(ctx context.Context, eventID primitive.ObjectID, count int64) error {
	col := mdb.collection(EventsCollection)

	_, err := col.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$set": bson.M{"seats_filled": count, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("error setting seats_filled: %w", err)
	}

	return nil
}
