package repository

import (
	"FlowCS/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetDeviceState updates a device's state, creating the record on first
// use. The boolean mirrors whether the write was applied.
func (m *MongoDB) SetDeviceState(ctx context.Context, name, state string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(devicesCollection)
	filter := bson.D{{Key: "name", Value: name}}
	update := bson.M{"$set": entity.Device{
		Name:      name,
		State:     state,
		UpdatedAt: time.Now(),
	}}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("mongodb upsert error: %w", err)
	}
	return true, nil
}
