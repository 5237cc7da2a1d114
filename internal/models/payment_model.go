package models

import "time"

// Payment is the record of a completed charge. It is never modified after insert.
type Payment struct {
	ID            string    `json:"_id" firestore:"-" bson:"-"`
	Email         string    `json:"email" firestore:"email" bson:"email"`
	TransactionID string    `json:"transactionId,omitempty" firestore:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Price         float64   `json:"price" firestore:"price" bson:"price"`
	Date          time.Time `json:"date" firestore:"date" bson:"date"`
	Quantity      int       `json:"quantity,omitempty" firestore:"quantity,omitempty" bson:"quantity,omitempty"`
	CartItemsID   []string  `json:"cartItemsId" firestore:"cartItemsId" bson:"cartItemsId"`
	ClassesID     []string  `json:"classesId" firestore:"classesId" bson:"classesId"`
	ClassNames    []string  `json:"classNames,omitempty" firestore:"classNames,omitempty" bson:"classNames,omitempty"`
}

func (p *Payment) SetID(id string) { p.ID = id }
