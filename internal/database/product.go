package repository

import (
	"FlowCS/entity"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProduct looks up one product by name. A missing product is
// (nil, nil), not an error.
func (m *MongoDB) GetProduct(ctx context.Context, name string) (*entity.Product, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(productsCollection)
	filter := bson.D{{Key: "name", Value: name}}

	var product entity.Product
	err = collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.findError(err)
	}

	return &product, nil
}

// GetQuote looks up one market quote by symbol.
func (m *MongoDB) GetQuote(ctx context.Context, symbol string) (*entity.Quote, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(quotesCollection)
	filter := bson.D{{Key: "symbol", Value: symbol}}

	var quote entity.Quote
	err = collection.FindOne(ctx, filter).Decode(&quote)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.findError(err)
	}

	return &quote, nil
}
