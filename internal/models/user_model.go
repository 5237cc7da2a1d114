package models

// Role values as stored on User documents. Comparisons are exact and
// case-sensitive.
const (
	RoleStudent    = "Student"
	RoleInstructor = "Instructor"
	RoleAdmin      = "Admin"
)

// User represents a registered person on the platform.
type User struct {
	ID    string `json:"_id" firestore:"-" bson:"-"` // Document ID
	Name  string `json:"name" firestore:"name" bson:"name"`
	Email string `json:"email" firestore:"email" bson:"email"`
	Role  string `json:"role" firestore:"role" bson:"role"`
	Image string `json:"image,omitempty" firestore:"image,omitempty" bson:"image,omitempty"`
}

func (u *User) SetID(id string) { u.ID = id }
