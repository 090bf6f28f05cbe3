package entity

type Order struct {
	OrderID     string `json:"order_id" bson:"order_id"`
	AccountID   string `json:"account_id" bson:"account_id"`
	ProductName string `json:"product_name" bson:"product_name"`
	Status      string `json:"status" bson:"status"`
	Eta         string `json:"eta" bson:"eta"`
}
