package repository

import (
	"FlowCS/entity"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetOrder looks up one order by its identifier. A missing order is
// (nil, nil), not an error.
func (m *MongoDB) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)
	filter := bson.D{{Key: "order_id", Value: orderID}}

	var order entity.Order
	err = collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.findError(err)
	}

	return &order, nil
}
