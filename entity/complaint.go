package entity

import "time"

type Complaint struct {
	RefID       string    `json:"ref_id" bson:"ref_id"`
	AccountID   string    `json:"account_id" bson:"account_id"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
