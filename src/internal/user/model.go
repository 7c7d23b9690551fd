package user

import (
	"attendance-svc/src/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Password []byte             `json:"-" bson:"password"`
	Role     string             `json:"role" bson:"role"`
}

// Profile is the public view of a user returned by the API.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=student teacher"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func (u *User) ToIdentity() *models.Identity {
	return &models.Identity{
		UserID: u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}
