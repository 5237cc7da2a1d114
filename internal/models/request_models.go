package models

import "time"

// CreateUserRequest represents the request body for registering a user.
// Role is stored verbatim; an empty role becomes RoleStudent.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role,omitempty"`
	Image string `json:"image,omitempty"`
}

// CreateClassRequest represents the request body for adding a class.
type CreateClassRequest struct {
	InstructorName  string  `json:"instructorName"`
	InstructorEmail string  `json:"instructorEmail" binding:"required,email"`
	ClassName       string  `json:"className" binding:"required"`
	Seats           int     `json:"seats" binding:"gte=0"`
	Price           float64 `json:"price" binding:"gte=0"`
	Image           string  `json:"image,omitempty"`
}

// UpdateClassRequest represents the request body for editing a class.
// Pointers distinguish "not provided" from zero values.
type UpdateClassRequest struct {
	ClassName    *string  `json:"className,omitempty"`
	Seats        *int     `json:"seats,omitempty" binding:"omitempty,gte=0"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	Image        *string  `json:"image,omitempty"`
	StudentCount *int     `json:"studentCount,omitempty" binding:"omitempty,gte=0"`
}

// FeedbackRequest carries an admin's feedback on a class.
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// AddCartItemRequest represents the request body for adding a class to a cart.
type AddCartItemRequest struct {
	Email           string  `json:"email" binding:"required,email"`
	ClassID         string  `json:"classId" binding:"required,docid"`
	ClassName       string  `json:"className"`
	InstructorName  string  `json:"instructorName,omitempty"`
	InstructorEmail string  `json:"instructorEmail,omitempty"`
	Image           string  `json:"image,omitempty"`
	Price           float64 `json:"price" binding:"gte=0"`
	Seats           int     `json:"seats,omitempty"`
}

// CreatePaymentIntentRequest asks the payment provider for a client secret.
type CreatePaymentIntentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0,lte=999999.99"`
}

// CreatePaymentRequest records a completed payment.
type CreatePaymentRequest struct {
	Email         string     `json:"email" binding:"required,email"`
	TransactionID string     `json:"transactionId,omitempty"`
	Price         float64    `json:"price" binding:"gte=0"`
	Date          *time.Time `json:"date,omitempty"`
	Quantity      int        `json:"quantity,omitempty"`
	CartItemsID   []string   `json:"cartItemsId" binding:"dive,docid"`
	ClassesID     []string   `json:"classesId" binding:"dive,docid"`
	ClassNames    []string   `json:"classNames,omitempty"`
}
