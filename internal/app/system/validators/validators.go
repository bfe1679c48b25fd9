// internal/app/system/validators/validators.go

// Package validators creates the site's collections and attaches the
// JSON-Schema validators that guard the stored shape of users and pages.
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// collection is one collection the site writes. schema is nil when the
// collection has no validator.
type collection struct {
	name   string
	schema func() bson.M
}

var collections = []collection{
	{"users", usersSchema},
	{"pages", pagesSchema},
	{"cache_entries", nil},
	{"temp_uploads", nil},
	{"oauth_states", nil},
	{"audit_logs", nil},
	{"login_attempts", nil},
}

// Collections lists every collection the site writes, in creation order.
func Collections() []string {
	names := make([]string, len(collections))
	for i, c := range collections {
		names[i] = c.name
	}
	return names
}

// EnsureAll creates the missing collections and attaches validators. A
// server that cannot run collMod (some DocumentDB versions) keeps working
// without validators; that is logged, not returned.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Fall through to CreateCollection and treat "exists" as success.
		logger.Warn("list collections failed", zap.Error(err))
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range collections {
		if !have[c.name] {
			if err := createCollection(ctx, db, c.name, logger); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", c.name, err))
				continue
			}
		}
		if c.schema == nil {
			continue
		}
		switch err := attachValidator(ctx, db, c.name, c.schema()); {
		case err == nil:
			logger.Info("validator ensured", zap.String("collection", c.name))
		case isUnsupported(err):
			logger.Info("validator skipped, server does not support collMod", zap.String("collection", c.name))
		default:
			problems = append(problems, fmt.Sprintf("%s: %v", c.name, err))
		}
	}

	if len(problems) > 0 {
		return errors.New("ensure collections: " + strings.Join(problems, "; "))
	}
	return nil
}

func createCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) error {
	err := db.CreateCollection(ctx, name)
	switch {
	case err == nil:
		logger.Info("created collection", zap.String("collection", name))
		return nil
	case isNamespaceExists(err):
		return nil
	default:
		return err
	}
}

func attachValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	return db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}).Err()
}

// Server error codes.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotSupported    = 115
)

func commandError(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func isNamespaceExists(err error) bool {
	return commandError(err, codeNamespaceExists, "already exists", "namespace exists")
}

func isUnsupported(err error) bool {
	return commandError(err, codeCommandNotFound, "no such command") ||
		commandError(err, codeNotSupported, "not implemented", "not supported")
}

// usersSchema checks the stored shape only. Role values are not enumerated:
// a user with an unknown role must still load so sign-in can refuse it.
func usersSchema() bson.M {
	return bson.M{"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"email", "role", "active"},
		"properties": bson.M{
			"email":           bson.M{"bsonType": "string", "minLength": 3, "pattern": "^[^A-Z]*$"},
			"display_name":    bson.M{"bsonType": "string"},
			"display_name_ci": bson.M{"bsonType": "string"},
			"role":            bson.M{"bsonType": "string"},
			"active":          bson.M{"bsonType": "bool"},
			"password_hash":   bson.M{"bsonType": bson.A{"string", "null"}},
			"last_login":      bson.M{"bsonType": bson.A{"date", "null"}},
		},
	}}
}

// pagesSchema requires nothing: section saves write dot paths, so a page
// document may hold only some of its sections.
func pagesSchema() bson.M {
	str := bson.M{"bsonType": "string"}
	return bson.M{"$jsonSchema": bson.M{
		"bsonType": "object",
		"properties": bson.M{
			"_id":           str,
			"content":       bson.M{"bsonType": "object"},
			"seo":           bson.M{"bsonType": "object"},
			"lastUpdated":   str,
			"updatedById":   str,
			"updatedByName": str,
		},
	}}
}
