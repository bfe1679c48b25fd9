package tasks_test

import (
	"testing"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"github.com/dalemusser/elaspodem/internal/app/system/tasks"
	"github.com/dalemusser/elaspodem/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestExpiredCleanupJobs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	now := time.Now()

	tests := []struct {
		collection string
		job        tasks.Job
	}{
		{"oauth_states", tasks.OAuthStateCleanupJob(db, zap.NewNop())},
		{"cache_entries", tasks.CacheEntryCleanupJob(db, zap.NewNop())},
	}
	for _, tt := range tests {
		t.Run(tt.job.Name, func(t *testing.T) {
			testutil.InsertDoc(t, db, tt.collection, bson.M{"key": "stale", "expires_at": now.Add(-time.Minute)})
			testutil.InsertDoc(t, db, tt.collection, bson.M{"key": "fresh", "expires_at": now.Add(time.Hour)})

			ctx, cancel := testutil.TestContext()
			defer cancel()
			require.NoError(t, tt.job.Run(ctx))

			n, err := db.Collection(tt.collection).CountDocuments(ctx, bson.M{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			n, err = db.Collection(tt.collection).CountDocuments(ctx, bson.M{"key": "fresh"})
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestAuditRetentionJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	for _, age := range []time.Duration{100 * 24 * time.Hour, 40 * 24 * time.Hour, time.Hour} {
		require.NoError(t, store.Log(ctx, audit.Event{
			CreatedAt: now.Add(-age),
			Category:  audit.CategoryContent,
			EventType: audit.EventPageSaved,
			Success:   true,
		}))
	}

	core, logs := observer.New(zap.InfoLevel)
	job := tasks.AuditRetentionJob(db, zap.New(core), 30*24*time.Hour)
	assert.Equal(t, "audit-retention", job.Name)
	require.NoError(t, job.Run(ctx))

	left, err := store.CountByFilter(ctx, audit.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), left)

	entries := logs.FilterMessage("deleted old audit events").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["deleted"])
}

func TestAuditRetentionJob_ZeroKeepsEverything(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	require.NoError(t, store.Log(ctx, audit.Event{
		CreatedAt: time.Now().AddDate(-5, 0, 0),
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		Success:   true,
	}))

	require.NoError(t, tasks.AuditRetentionJob(db, zap.NewNop(), 0).Run(ctx))

	left, err := store.CountByFilter(ctx, audit.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), left)
}
