// internal/app/store/pages/pagestore.go
package pagestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads and writes page documents. Documents are addressed by
// (collection, id) with a string _id such as "home".
type Store struct {
	db *mongo.Database
}

// New creates a new page store.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

var errEmptyUpdate = errors.New("pagestore: no fields to update")

// GetDocument returns the document with the given id. A missing document is
// reported with found=false and a nil error. The _id field is not included
// in the returned record.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (fieldmode.Record, bool, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	delete(raw, "_id")
	doc, _ := fieldmode.AsRecord(raw)
	return doc, true, nil
}

// UpdateFields applies fields as a merge into the document, creating it if
// needed. Keys may be dot paths ("content.hero"); fields not named are left
// untouched. All fields are written in one update, so readers see all of
// them or none.
func (s *Store) UpdateFields(ctx context.Context, collection, id string, fields fieldmode.Record) error {
	if len(fields) == 0 {
		return errEmptyUpdate
	}
	set := bson.M{}
	for k, v := range fields {
		if k == "" || k == "_id" || strings.HasPrefix(k, "$") {
			return fmt.Errorf("pagestore: invalid field path %q", k)
		}
		set[k] = v
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts)
	return err
}

// Exists reports whether the document exists.
func (s *Store) Exists(ctx context.Context, collection, id string) (bool, error) {
	count, err := s.db.Collection(collection).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Replace overwrites the whole document. It is used for seeding only.
func (s *Store) Replace(ctx context.Context, collection, id string, doc fieldmode.Record) error {
	body := doc.Clone()
	if body == nil {
		body = fieldmode.Record{}
	}
	body["_id"] = id
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, body, opts)
	return err
}
