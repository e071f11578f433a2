package notifications

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/exceptions"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationMongoRepository struct {
	Collection *mongo.Collection
}

func NewNotificationMongoRepository(db *mongo.Client, dbName string) contracts.NotificationLogRepository {
	return &NotificationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionNotificationLog),
	}
}

func (repo *NotificationMongoRepository) InsertEntry(ctx context.Context, entry *models.NotificationLogEntry) error {
	_, err := repo.Collection.InsertOne(ctx, entry)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *NotificationMongoRepository) FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]models.NotificationLogEntry, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "deliveredAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := repo.Collection.Find(ctx, bson.M{"recipientId": recipientID}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var entries []models.NotificationLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return entries, nil
}
