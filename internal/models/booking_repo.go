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

func (mdb *MongodbRepo) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col := mdb.collection(BookingsCollection)

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("error inserting booking: %w", err)
	}

	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	col := mdb.collection(BookingsCollection)

	var booking Booking
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding booking by ID: %w", err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) ListBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*Booking, error) {
	col := mdb.collection(BookingsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*Booking{}
	for cursor.Next(ctx) {
		var booking Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return bookings, nil
}

func (mdb *MongodbRepo) FindBookingByEventAndUser(ctx context.Context, eventID, userID primitive.ObjectID) (*Booking, error) {
	col := mdb.collection(BookingsCollection)

	var booking Booking
	err := col.FindOne(ctx, bson.M{"event_id": eventID, "user_id": userID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding booking: %w", err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) UpdateBookingNotes(ctx context.Context, id primitive.ObjectID, notes string) (*Booking, error) {
	col := mdb.collection(BookingsCollection)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Booking
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"notes": notes, "updated_at": time.Now()},
	}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error updating booking notes: %w", err)
	}

	return &updated, nil
}

func (mdb *MongodbRepo) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	col := mdb.collection(BookingsCollection)

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func (mdb *MongodbRepo) DeleteBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	col := mdb.collection(BookingsCollection)

	res, err := col.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("error deleting event bookings: %w", err)
	}

	return res.DeletedCount, nil
}

func (mdb *MongodbRepo) CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	col := mdb.collection(BookingsCollection)

	count, err := col.CountDocuments(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("error counting bookings: %w", err)
	}

	return count, nil
}
