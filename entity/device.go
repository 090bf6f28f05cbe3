package entity

import "time"

type Device struct {
	Name      string    `json:"name" bson:"name"`
	State     string    `json:"state" bson:"state"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type Quote struct {
	Symbol string `json:"symbol" bson:"symbol"`
	Price  string `json:"price" bson:"price"`
	Trend  string `json:"trend" bson:"trend"`
}
