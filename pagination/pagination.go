// Package pagination implements the count+fetch page engine shared by the
// event and booking listing endpoints.
package pagination

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a requested page. Use Normalize (or ParseQuery) before doing
// arithmetic with it.
type Params struct {
	Page  int
	Limit int
}

// Meta is the page descriptor returned alongside every paginated response.
type Meta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Normalize coerces page to at least 1 and limit into [1, MaxLimit],
// defaulting limit to DefaultLimit when it is zero or negative.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip returns the number of documents to skip for the page. Call on
// normalized params only.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// ParseQuery builds Params from raw query-string values. Non-numeric input
// falls back to the defaults rather than erroring.
func ParseQuery(page, limit string) Params {
	p := Params{}
	if n, err := strconv.Atoi(page); err == nil {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil {
		p.Limit = n
	}
	return p.Normalize()
}

// BuildMeta computes the page descriptor for a total document count.
// total=0 yields totalPages=0 with both has-flags false; a page past the
// end still yields valid metadata.
func BuildMeta(total int64, p Params) Meta {
	p = p.Normalize()
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		Total:       total,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}

// FindPage runs the count+find pair against a collection and decodes the
// page into results (a pointer to a slice). The filter is not mutated; sort
// may be nil for natural order.
func FindPage(ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, p Params, results interface{}) (Meta, error) {
	p = p.Normalize()

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return Meta{}, err
	}

	opts := options.Find().SetSkip(p.Skip()).SetLimit(int64(p.Limit))
	if sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return Meta{}, err
	}
	if err := cursor.All(ctx, results); err != nil {
		return Meta{}, err
	}

	return BuildMeta(total, p), nil
}
