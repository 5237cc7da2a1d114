package models

// CartItem is a class a student selected but has not paid for yet.
// The class fields are a snapshot taken when the item was added.
type CartItem struct {
	ID              string  `json:"_id" firestore:"-" bson:"-"`
	Email           string  `json:"email" firestore:"email" bson:"email"`
	ClassID         string  `json:"classId" firestore:"classId" bson:"classId"`
	ClassName       string  `json:"className" firestore:"className" bson:"className"`
	InstructorName  string  `json:"instructorName,omitempty" firestore:"instructorName,omitempty" bson:"instructorName,omitempty"`
	InstructorEmail string  `json:"instructorEmail,omitempty" firestore:"instructorEmail,omitempty" bson:"instructorEmail,omitempty"`
	Image           string  `json:"image,omitempty" firestore:"image,omitempty" bson:"image,omitempty"`
	Price           float64 `json:"price" firestore:"price" bson:"price"`
	Seats           int     `json:"seats,omitempty" firestore:"seats,omitempty" bson:"seats,omitempty"`
}

func (c *CartItem) SetID(id string) { c.ID = id }
