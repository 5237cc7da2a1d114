package models

// Class status values.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusDenied   = "Denied"
)

// Class is a course offered by an instructor.
type Class struct {
	ID              string  `json:"_id" firestore:"-" bson:"-"`
	InstructorName  string  `json:"instructorName" firestore:"instructorName" bson:"instructorName"`
	InstructorEmail string  `json:"instructorEmail" firestore:"instructorEmail" bson:"instructorEmail"`
	ClassName       string  `json:"className" firestore:"className" bson:"className"`
	Seats           int     `json:"seats" firestore:"seats" bson:"seats"`
	Price           float64 `json:"price" firestore:"price" bson:"price"`
	Image           string  `json:"image,omitempty" firestore:"image,omitempty" bson:"image,omitempty"`
	Status          string  `json:"status" firestore:"status" bson:"status"`
	Feedback        string  `json:"feedback,omitempty" firestore:"feedback,omitempty" bson:"feedback,omitempty"`
	StudentCount    int     `json:"studentCount" firestore:"studentCount" bson:"studentCount"`
}

func (c *Class) SetID(id string) { c.ID = id }
