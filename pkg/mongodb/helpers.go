package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Now returns the current time in UTC. Persisted timestamps go through
// this so documents compare consistently across replicas.
func Now() time.Time {
	return time.Now().UTC()
}

// BuildUpdateWithTimestamp builds a $set update document and stamps updatedAt
func BuildUpdateWithTimestamp(set bson.M) bson.M {
	set["updatedAt"] = Now()
	return bson.M{"$set": set}
}

// BuildIncrementUpdate builds a $inc update document and stamps updatedAt
func BuildIncrementUpdate(inc bson.M) bson.M {
	return bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": Now()},
	}
}

// SortAscending creates an ascending sort option
func SortAscending(field string) bson.D {
	return bson.D{{Key: field, Value: 1}}
}

// SortDescending creates a descending sort option
func SortDescending(field string) bson.D {
	return bson.D{{Key: field, Value: -1}}
}
