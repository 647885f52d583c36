package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/youssefhany/go-eventbook/models"
	"github.com/youssefhany/go-eventbook/pagination"
	"github.com/youssefhany/go-eventbook/store"
)

// In-memory store implementations backing the service tests. They reuse the
// pagination package for page arithmetic so listing behavior matches the
// Mongo implementations.

type memEventStore struct {
	events map[primitive.ObjectID]models.Event
}

func newMemEventStore() *memEventStore {
	return &memEventStore{events: map[primitive.ObjectID]models.Event{}}
}

func (s *memEventStore) Create(_ context.Context, ev *models.Event) error {
	if ev.ID.IsZero() {
		ev.ID = primitive.NewObjectID()
	}
	s.events[ev.ID] = *ev
	return nil
}

func (s *memEventStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	ev, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ev, nil
}

func (s *memEventStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Event, error) {
	out := map[primitive.ObjectID]models.Event{}
	for _, id := range ids {
		if ev, ok := s.events[id]; ok {
			out[id] = ev
		}
	}
	return out, nil
}

func (s *memEventStore) Exists(_ context.Context, name string, date time.Time, venue string) (bool, error) {
	for _, ev := range s.events {
		if ev.Name == name && ev.Date.Equal(date) && ev.Venue == venue {
			return true, nil
		}
	}
	return false, nil
}

func (s *memEventStore) List(_ context.Context, f store.EventFilter, p pagination.Params) ([]models.Event, pagination.Meta, error) {
	matched := []models.Event{}
	for _, ev := range s.events {
		if f.Category != "" && ev.Category != f.Category {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(ev.Name), q) && !strings.Contains(strings.ToLower(ev.Venue), q) {
				continue
			}
		}
		if !f.From.IsZero() && ev.Date.Before(f.From) {
			continue
		}
		matched = append(matched, ev)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return pageSliceEvents(matched, p)
}

func (s *memEventStore) Update(_ context.Context, id primitive.ObjectID, upd store.EventUpdate) error {
	ev, ok := s.events[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.Name != nil {
		ev.Name = *upd.Name
	}
	if upd.Description != nil {
		ev.Description = *upd.Description
	}
	if upd.Category != nil {
		ev.Category = *upd.Category
	}
	if upd.Date != nil {
		ev.Date = *upd.Date
	}
	if upd.Venue != nil {
		ev.Venue = *upd.Venue
	}
	if upd.Price != nil {
		ev.Price = *upd.Price
	}
	if upd.Image != nil {
		ev.Image = *upd.Image
	}
	if upd.Capacity != nil {
		ev.Capacity = *upd.Capacity
	}
	s.events[id] = ev
	return nil
}

func (s *memEventStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

type memBookingStore struct {
	bookings map[primitive.ObjectID]models.Booking
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: map[primitive.ObjectID]models.Booking{}}
}

func (s *memBookingStore) Create(_ context.Context, b *models.Booking) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *memBookingStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (s *memBookingStore) FindByUserAndEvent(_ context.Context, userID, eventID primitive.ObjectID) (*models.Booking, error) {
	for _, b := range s.bookings {
		if b.UserID == userID && b.EventID == eventID {
			return &b, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memBookingStore) CountByEvent(_ context.Context, eventID primitive.ObjectID) (int64, error) {
	var n int64
	for _, b := range s.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (s *memBookingStore) EventIDsForUser(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			ids = append(ids, b.EventID)
		}
	}
	return ids, nil
}

func (s *memBookingStore) ListByUser(_ context.Context, userID primitive.ObjectID, p pagination.Params) ([]models.Booking, pagination.Meta, error) {
	matched := []models.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].BookedAt.After(matched[j].BookedAt) })
	return pageSliceBookings(matched, p)
}

func (s *memBookingStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.bookings[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

type memUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[primitive.ObjectID]models.User{}}
}

func (s *memUserStore) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) GetByVerificationToken(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}
	for _, u := range s.users {
		if u.VerificationToken == token {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsVerified = true
	u.VerificationToken = ""
	u.VerificationExp = time.Time{}
	s.users[id] = u
	return nil
}

func (s *memUserStore) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = hash
	s.users[id] = u
	return nil
}

func (s *memUserStore) SetProfilePicture(_ context.Context, id primitive.ObjectID, uri string) error {
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ProfilePicture = uri
	s.users[id] = u
	return nil
}

type memImageStore struct {
	stored  []string
	deleted []string
	delErr  error
}

func (s *memImageStore) Store(r io.Reader, ext string) (string, error) {
	var buf bytes.Buffer
	io.Copy(&buf, r)
	uri := "http://localhost/uploads/img-" + primitive.NewObjectID().Hex() + ext
	s.stored = append(s.stored, uri)
	return uri, nil
}

func (s *memImageStore) Delete(uri string) error {
	s.deleted = append(s.deleted, uri)
	return s.delErr
}

type memMailer struct {
	sent []string // "email:token"
	err  error
}

func (m *memMailer) SendVerification(to, token string) error {
	m.sent = append(m.sent, to+":"+token)
	return m.err
}

func pageSliceEvents(all []models.Event, p pagination.Params) ([]models.Event, pagination.Meta, error) {
	p = p.Normalize()
	meta := pagination.BuildMeta(int64(len(all)), p)
	start := int(p.Skip())
	if start >= len(all) {
		return []models.Event{}, meta, nil
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], meta, nil
}

func pageSliceBookings(all []models.Booking, p pagination.Params) ([]models.Booking, pagination.Meta, error) {
	p = p.Normalize()
	meta := pagination.BuildMeta(int64(len(all)), p)
	start := int(p.Skip())
	if start >= len(all) {
		return []models.Booking{}, meta, nil
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], meta, nil
}
