package config

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

// ConnectDB connects to MongoDB and sets the global Client and DB variables.
// It reads MONGO_URI and MONGO_DB from the environment.
func ConnectDB() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		logrus.Fatal("MONGO_URI not set in env")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		logrus.Fatal("MONGO_DB not set in env")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logrus.Fatalf("mongo.Connect error: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logrus.Fatalf("mongo.Ping error: %v", err)
	}

	Client = client
	DB = client.Database(dbName)

	logrus.WithField("database", dbName).Info("connected to MongoDB")
}
