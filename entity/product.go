package entity

type Product struct {
	Name        string `json:"name" bson:"name"`
	Price       string `json:"price" bson:"price"`
	Stock       int    `json:"stock" bson:"stock"`
	Description string `json:"description" bson:"description"`
}
