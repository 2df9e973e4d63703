package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type User struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name,omitempty"`
	Email         string             `json:"email" bson:"email,omitempty"`
	Password      string             `json:"-" bson:"password,omitempty"`
	Role          string             `json:"role" bson:"role,omitempty"`
	EmployeeID    string             `json:"employee_id,omitempty" bson:"employee_id,omitempty"`
	Subject       string             `json:"subject,omitempty" bson:"subject,omitempty"`
	Qualification string             `json:"qualification,omitempty" bson:"qualification,omitempty"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address       string             `json:"address,omitempty" bson:"address,omitempty"`
	IsActive      bool               `json:"is_active" bson:"is_active"`
	IsFirstLogin  bool               `json:"is_first_login" bson:"is_first_login,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

type UserRegisterPayload struct {
	Name          string `json:"name" validate:"required,min=3,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=50,hasuppercase"`
	Role          string `json:"role" validate:"required,oneof=admin teacher student"`
	EmployeeID    string `json:"employee_id"`
	Subject       string `json:"subject"`
	Qualification string `json:"qualification"`
	Phone         string `json:"phone"`
	Address       string `json:"address" validate:"omitempty,min=5,max=255"`
}

type UserLoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdatePayload struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Subject       string `json:"subject,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty" validate:"omitempty,min=5,max=255"`
	IsActive      *bool  `json:"is_active,omitempty"`
}

type ChangePasswordPayload struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=50,hasuppercase"`
}
