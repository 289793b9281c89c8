package mongodb

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNowIsUTC(t *testing.T) {
	now := Now()
	if now.Location() != time.UTC {
		t.Errorf("Expected UTC location, got %v", now.Location())
	}
}

func TestBuildUpdateWithTimestamp(t *testing.T) {
	update := BuildUpdateWithTimestamp(bson.M{"contentId": "content-1"})

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("Expected $set document, got %v", update)
	}
	if set["contentId"] != "content-1" {
		t.Errorf("Expected contentId content-1, got %v", set["contentId"])
	}
	if _, ok := set["updatedAt"].(time.Time); !ok {
		t.Errorf("Expected updatedAt timestamp, got %v", set["updatedAt"])
	}
}

func TestBuildIncrementUpdate(t *testing.T) {
	update := BuildIncrementUpdate(bson.M{"quantity": 3, "version": 1})

	inc, ok := update["$inc"].(bson.M)
	if !ok {
		t.Fatalf("Expected $inc document, got %v", update)
	}
	if inc["quantity"] != 3 || inc["version"] != 1 {
		t.Errorf("Unexpected increments: %v", inc)
	}
	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("Expected $set document, got %v", update)
	}
	if _, ok := set["updatedAt"].(time.Time); !ok {
		t.Errorf("Expected updatedAt timestamp, got %v", set["updatedAt"])
	}
}

func TestSortHelpers(t *testing.T) {
	asc := SortAscending("createdAt")
	if asc[0].Key != "createdAt" || asc[0].Value != 1 {
		t.Errorf("Unexpected ascending sort: %v", asc)
	}
	desc := SortDescending("createdAt")
	if desc[0].Key != "createdAt" || desc[0].Value != -1 {
		t.Errorf("Unexpected descending sort: %v", desc)
	}
}
