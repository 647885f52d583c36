package models

import "time"

import "go.mongodb.org/mongo-driver/bson/primitive"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password_hash" json:"-"` // hashed password; omit from JSON output
	Role              string             `bson:"role" json:"role"`       // "user" or "admin"
	IsVerified        bool               `bson:"is_verified" json:"is_verified"`
	VerificationToken string             `bson:"verification_token,omitempty" json:"-"`
	VerificationExp   time.Time          `bson:"verification_exp,omitempty" json:"-"`
	ProfilePicture    string             `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
