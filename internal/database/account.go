package repository

import (
	"FlowCS/entity"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ChangePassword verifies the old password and stores the new one.
// Returns false when the account is missing or the old password does
// not match; errors are reserved for store problems.
func (m *MongoDB) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(accountsCollection)
	filter := bson.D{{Key: "account_id", Value: accountID}}

	var account entity.Account
	err = collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, m.findError(err)
	}
	if account.Password != oldPassword {
		return false, nil
	}

	update := bson.M{"$set": bson.M{"password": newPassword}}
	_, err = collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("mongodb update error: %w", err)
	}
	return true, nil
}

// DeactivateAccount removes the account record. Returns false when no
// such account existed.
func (m *MongoDB) DeactivateAccount(ctx context.Context, accountID string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(accountsCollection)
	filter := bson.D{{Key: "account_id", Value: accountID}}

	result, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("mongodb delete error: %w", err)
	}
	return result.DeletedCount > 0, nil
}
