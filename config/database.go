package config

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoConn *mongo.Client

var DBName string = "school-administration-db"
var UserCollection string = "users"
var AttendanceCollection string = "attendances"
var PolicyCollection string = "attendance_policies"
var HolidayCollection string = "holidays"
var ResultCollection string = "results"

func MongoConnect() {

	mongoURI := os.Getenv("MONGOSTRING")

	if mongoURI == "" {
		log.Fatal("MONGOSTRING is not set in env, set it first")
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to create MongoDB client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB!")
	MongoConn = client
}

// InitDatabase creates the indexes the application relies on. The unique
// compound index on (teacher_id, date) is the arbiter between a teacher's
// self-mark and the compliance sweeper racing for the same day: whichever
// insert lands second gets a duplicate key error and must back off.
func InitDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	attendanceIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "teacher_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_teacher_date"),
	}
	if _, err := GetCollection(AttendanceCollection).Indexes().CreateOne(ctx, attendanceIndex); err != nil {
		log.Fatalf("Failed to create attendance index: %v", err)
	}

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := GetCollection(UserCollection).Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Fatalf("Failed to create user email index: %v", err)
	}

	holidayIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}},
	}
	if _, err := GetCollection(HolidayCollection).Indexes().CreateOne(ctx, holidayIndex); err != nil {
		log.Fatalf("Failed to create holiday index: %v", err)
	}

	resultIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "uploaded_by", Value: 1}},
	}
	if _, err := GetCollection(ResultCollection).Indexes().CreateOne(ctx, resultIndex); err != nil {
		log.Fatalf("Failed to create result index: %v", err)
	}

	log.Println("Database indexes are in place")
}

func GetCollection(collectionName string) *mongo.Collection {
	if MongoConn == nil {
		log.Fatal("MongoDB client is not initialized. Call MongoConnect() first")
	}
	return MongoConn.Database(DBName).Collection(collectionName)
}

func DisconnectDB() {
	if MongoConn != nil {
		if err := MongoConn.Disconnect(context.Background()); err != nil {
			log.Fatalf("Error disconnecting from MongoDB: %v", err)
		}
		log.Println("Disconnect from MongoDB")
	}
}
