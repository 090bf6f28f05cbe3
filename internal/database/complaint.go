package repository

import (
	"FlowCS/entity"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InsertComplaint stores a new complaint and returns its reference id.
func (m *MongoDB) InsertComplaint(ctx context.Context, accountID, description string) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(complaintsCollection)

	refID := "C" + strings.ToUpper(uuid.NewString()[:8])
	complaint := entity.Complaint{
		RefID:       refID,
		AccountID:   accountID,
		Description: description,
		CreatedAt:   time.Now(),
	}

	_, err = collection.InsertOne(ctx, complaint)
	if err != nil {
		return "", fmt.Errorf("mongodb insert error: %w", err)
	}
	return refID, nil
}
