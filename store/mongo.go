package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/youssefhany/go-eventbook/models"
	"github.com/youssefhany/go-eventbook/pagination"
)

// MongoEventStore persists events in the "events" collection.
type MongoEventStore struct {
	coll *mongo.Collection
}

func NewMongoEventStore(db *mongo.Database) *MongoEventStore {
	return &MongoEventStore{coll: db.Collection("events")}
}

func (s *MongoEventStore) Create(ctx context.Context, ev *models.Event) error {
	res, err := s.coll.InsertOne(ctx, ev)
	if err != nil {
		return err
	}
	ev.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoEventStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var ev models.Event
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *MongoEventStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Event, error) {
	out := make(map[primitive.ObjectID]models.Event, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	for _, ev := range events {
		out[ev.ID] = ev
	}
	return out, nil
}

func (s *MongoEventStore) Exists(ctx context.Context, name string, date time.Time, venue string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"name": name, "date": date, "venue": venue})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoEventStore) List(ctx context.Context, f EventFilter, p pagination.Params) ([]models.Event, pagination.Meta, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{bson.M{"name": re}, bson.M{"venue": re}}
	}
	if !f.From.IsZero() {
		filter["date"] = bson.M{"$gte": f.From}
	}

	events := []models.Event{}
	meta, err := pagination.FindPage(ctx, s.coll, filter, bson.D{{Key: "date", Value: 1}}, p, &events)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return events, meta, nil
}

func (s *MongoEventStore) Update(ctx context.Context, id primitive.ObjectID, upd EventUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.Venue != nil {
		set["venue"] = *upd.Venue
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Capacity != nil {
		set["capacity"] = *upd.Capacity
	}

	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoEventStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoBookingStore persists bookings in the "bookings" collection.
type MongoBookingStore struct {
	coll *mongo.Collection
}

func NewMongoBookingStore(db *mongo.Database) *MongoBookingStore {
	return &MongoBookingStore{coll: db.Collection("bookings")}
}

func (s *MongoBookingStore) Create(ctx context.Context, b *models.Booking) error {
	res, err := s.coll.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoBookingStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var b models.Booking
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MongoBookingStore) FindByUserAndEvent(ctx context.Context, userID, eventID primitive.ObjectID) (*models.Booking, error) {
	var b models.Booking
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID, "event_id": eventID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *MongoBookingStore) CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"event_id": eventID})
}

func (s *MongoBookingStore) EventIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.EventID)
	}
	return ids, nil
}

func (s *MongoBookingStore) ListByUser(ctx context.Context, userID primitive.ObjectID, p pagination.Params) ([]models.Booking, pagination.Meta, error) {
	bookings := []models.Booking{}
	meta, err := pagination.FindPage(ctx, s.coll, bson.M{"user_id": userID}, bson.D{{Key: "booked_at", Value: -1}}, p, &bookings)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return bookings, meta, nil
}

func (s *MongoBookingStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoUserStore persists users in the "users" collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection("users")}
}

func (s *MongoUserStore) Create(ctx context.Context, u *models.User) error {
	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"verification_token": token})
}

func (s *MongoUserStore) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set":   bson.M{"is_verified": true, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"verification_token": "", "verification_exp": ""},
	}
	res, err := s.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) SetProfilePicture(ctx context.Context, id primitive.ObjectID, uri string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"profile_picture": uri, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
