package db

import (
	"context"
	"log"
	"time"

	"savora/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	FoodCollection        *mongo.Collection
	OrderCollection       *mongo.Collection
	PromoCollection       *mongo.Collection
	BannerCollection      *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	cfg := config.Load()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database(cfg.MongoDB)
	UserCollection = database.Collection("users")
	FoodCollection = database.Collection("foods")
	OrderCollection = database.Collection("orders")
	PromoCollection = database.Collection("promos")
	BannerCollection = database.Collection("banners")
	IdempotencyCollection = database.Collection("idempotency")
}

// EnsureIndexes creates the indexes the order and promo flows depend on.
// Called once from main after the connection is up.
func EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_email"),
	})
	if err != nil {
		return err
	}

	_, err = PromoCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_code"),
	})
	if err != nil {
		return err
	}

	// Supports the duplicate-order window scan at placement time.
	_, err = OrderCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userid", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("user_recent_orders"),
	})
	if err != nil {
		return err
	}

	_, err = OrderCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "idempotencyKey", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetSparse(true).
			SetName("unique_idempotency_key"),
	})
	if err != nil {
		return err
	}

	_, err = IdempotencyCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	})
	return err
}
