package validators

import (
	"errors"
	"testing"

	"github.com/dalemusser/elaspodem/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	core, logs := observer.New(zap.InfoLevel)
	require.NoError(t, EnsureAll(ctx, db, zap.New(core)))

	names, err := db.ListCollectionNames(ctx, bson.M{})
	require.NoError(t, err)
	for _, c := range Collections() {
		assert.Contains(t, names, c)
	}
	assert.Equal(t, 2, logs.FilterMessage("validator ensured").Len(), "users and pages")
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	require.NoError(t, EnsureAll(ctx, db, nil))

	core, logs := observer.New(zap.InfoLevel)
	require.NoError(t, EnsureAll(ctx, db, zap.New(core)))
	assert.Zero(t, logs.FilterMessage("created collection").Len(), "second run creates nothing")
}

func TestCollections(t *testing.T) {
	assert.Equal(t, []string{
		"users", "pages", "cache_entries", "temp_uploads", "oauth_states", "audit_logs", "login_attempts",
	}, Collections())
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		exists    bool
		unsupport bool
	}{
		{"nil", nil, false, false},
		{"namespace exists code", mongo.CommandError{Code: 48, Message: "collection already exists"}, true, false},
		{"exists by message", errors.New("Namespace exists: elaspodem.users"), true, false},
		{"no such command code", mongo.CommandError{Code: 59, Message: "no such cmd: collMod"}, false, true},
		{"not supported code", mongo.CommandError{Code: 115, Message: "feature"}, false, true},
		{"not implemented message", errors.New("collMod not implemented"), false, true},
		{"unrelated", mongo.CommandError{Code: 13, Message: "unauthorized"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exists, isNamespaceExists(tt.err), "isNamespaceExists")
			assert.Equal(t, tt.unsupport, isUnsupported(tt.err), "isUnsupported")
		})
	}
}

func TestPagesSchema_RequiresNothing(t *testing.T) {
	schema, ok := pagesSchema()["$jsonSchema"].(bson.M)
	require.True(t, ok)
	assert.NotContains(t, schema, "required", "section saves are partial")
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, EnsureAll(ctx, db, nil))

	tests := []struct {
		name string
		doc  bson.M
		ok   bool
	}{
		{"writer", bson.M{"email": "ana@elaspodem.org", "role": "writer", "active": true}, true},
		{"unknown role is stored", bson.M{"email": "bia@elaspodem.org", "role": "Owner", "active": true}, true},
		{"google only", bson.M{"email": "cris@elaspodem.org", "role": "admin", "active": true, "password_hash": nil}, true},
		{"missing active", bson.M{"email": "dani@elaspodem.org", "role": "writer"}, false},
		{"upper-case email", bson.M{"email": "Eva@elaspodem.org", "role": "writer", "active": true}, false},
		{"active as string", bson.M{"email": "fe@elaspodem.org", "role": "writer", "active": "yes"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection("users").InsertOne(ctx, tt.doc)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPagesValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, EnsureAll(ctx, db, nil))

	pages := db.Collection("pages")
	_, err := pages.InsertOne(ctx, bson.M{"_id": "home", "content": bson.M{"hero": bson.M{"title": "Elas Podem"}}})
	assert.NoError(t, err)
	_, err = pages.InsertOne(ctx, bson.M{"_id": "about", "content": "not an object"})
	assert.Error(t, err)
}
