package audit

import (
	"testing"
	"time"

	"github.com/dalemusser/elaspodem/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// seedEditingDay logs a small day of site activity: a writer signs in, saves
// the hero section and uploads an image, an admin creates a user, and a
// stranger fails to sign in twice.
func seedEditingDay(t *testing.T, store *Store, writer, admin primitive.ObjectID, start time.Time) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	at := func(min int) time.Time { return start.Add(time.Duration(min) * time.Minute) }
	events := []Event{
		{CreatedAt: at(0), Category: CategoryAuth, EventType: EventLoginSuccess, UserID: &writer, Success: true},
		{CreatedAt: at(5), Category: CategoryContent, EventType: EventPageSectionSaved, ActorID: &writer, ActorName: "Ana",
			Success: true, Details: map[string]string{"page": "home", "section": "hero"}},
		{CreatedAt: at(6), Category: CategoryContent, EventType: EventImageUploaded, ActorID: &writer, ActorName: "Ana",
			Success: true, Details: map[string]string{"category": "hero", "path": "images/hero/hero-1.png"}},
		{CreatedAt: at(10), Category: CategoryAdmin, EventType: EventUserCreated, ActorID: &admin, UserID: &writer, Success: true},
		{CreatedAt: at(20), Category: CategoryAuth, EventType: EventLoginFailedUserNotFound, FailureReason: "user not found"},
		{CreatedAt: at(21), Category: CategoryAuth, EventType: EventLoginFailedWrongPassword, UserID: &writer, FailureReason: "wrong password"},
	}
	for _, e := range events {
		require.NoError(t, store.Log(ctx, e))
	}
}

func TestStore_Log_FillsIDAndTime(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	before := time.Now().Add(-time.Second)
	require.NoError(t, store.Log(ctx, Event{
		Category:  CategoryContent,
		EventType: EventPageSaved,
		ActorID:   &actor,
		ActorName: "Ana",
		IP:        "203.0.113.7",
		UserAgent: "Firefox",
		Success:   true,
		Details:   map[string]string{"page": "home"},
	}))

	got, err := store.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	e := got[0]
	assert.False(t, e.ID.IsZero(), "ID should be generated")
	assert.True(t, e.CreatedAt.After(before), "CreatedAt = %v, want now", e.CreatedAt)
	assert.Equal(t, EventPageSaved, e.EventType)
	assert.Equal(t, "Ana", e.ActorName)
	assert.Equal(t, "203.0.113.7", e.IP)
	assert.Equal(t, map[string]string{"page": "home"}, e.Details)
}

func TestStore_Log_KeepsGivenIDAndTime(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	created := time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond)
	require.NoError(t, store.Log(ctx, Event{ID: id, CreatedAt: created, Category: CategoryAuth, EventType: EventLogout, Success: true}))

	got, err := store.GetRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.True(t, created.Equal(got[0].CreatedAt), "CreatedAt = %v, want %v", got[0].CreatedAt, created)
}

func TestStore_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	writer, admin := primitive.NewObjectID(), primitive.NewObjectID()
	start := time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond)
	seedEditingDay(t, store, writer, admin, start)

	mid := start.Add(8 * time.Minute)
	late := start.Add(time.Hour)
	tests := []struct {
		name   string
		filter QueryFilter
		want   []string // event types, newest first
	}{
		{"all", QueryFilter{}, []string{
			EventLoginFailedWrongPassword, EventLoginFailedUserNotFound, EventUserCreated,
			EventImageUploaded, EventPageSectionSaved, EventLoginSuccess,
		}},
		{"content", QueryFilter{Category: CategoryContent}, []string{EventImageUploaded, EventPageSectionSaved}},
		{"by actor", QueryFilter{ActorID: &admin}, []string{EventUserCreated}},
		{"about user", QueryFilter{UserID: &writer}, []string{EventLoginFailedWrongPassword, EventUserCreated, EventLoginSuccess}},
		{"event type", QueryFilter{EventType: EventPageSectionSaved}, []string{EventPageSectionSaved}},
		{"since", QueryFilter{StartTime: &mid}, []string{EventLoginFailedWrongPassword, EventLoginFailedUserNotFound, EventUserCreated}},
		{"until", QueryFilter{EndTime: &mid}, []string{EventImageUploaded, EventPageSectionSaved, EventLoginSuccess}},
		{"empty range", QueryFilter{StartTime: &late}, nil},
		{"limit", QueryFilter{Limit: 2}, []string{EventLoginFailedWrongPassword, EventLoginFailedUserNotFound}},
		{"offset", QueryFilter{Limit: 2, Offset: 4}, []string{EventPageSectionSaved, EventLoginSuccess}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			require.NoError(t, err)
			types := make([]string, 0, len(got))
			for _, e := range got {
				types = append(types, e.EventType)
			}
			if tt.want == nil {
				assert.Empty(t, types)
				return
			}
			assert.Equal(t, tt.want, types)

			n, err := store.CountByFilter(ctx, QueryFilter{
				UserID: tt.filter.UserID, ActorID: tt.filter.ActorID,
				Category: tt.filter.Category, EventType: tt.filter.EventType,
				StartTime: tt.filter.StartTime, EndTime: tt.filter.EndTime,
			})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, int64(len(tt.want)))
		})
	}
}

func TestStore_GetByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	writer, admin := primitive.NewObjectID(), primitive.NewObjectID()
	seedEditingDay(t, store, writer, admin, time.Now().Add(-time.Hour))

	got, err := store.GetByUser(ctx, writer, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, e := range got {
		require.NotNil(t, e.UserID)
		assert.Equal(t, writer, *e.UserID)
	}
}

func TestStore_GetFailedLogins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	writer, admin := primitive.NewObjectID(), primitive.NewObjectID()
	start := time.Now().Add(-time.Hour)
	seedEditingDay(t, store, writer, admin, start)

	got, err := store.GetFailedLogins(ctx, start, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, EventLoginFailedWrongPassword, got[0].EventType)
	assert.Equal(t, "wrong password", got[0].FailureReason)
	assert.Equal(t, EventLoginFailedUserNotFound, got[1].EventType)

	got, err = store.GetFailedLogins(ctx, start.Add(30*time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_DeleteBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	writer, admin := primitive.NewObjectID(), primitive.NewObjectID()
	start := time.Now().Add(-time.Hour)
	seedEditingDay(t, store, writer, admin, start)

	deleted, err := store.DeleteBefore(ctx, start.Add(8*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	left, err := store.CountByFilter(ctx, QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), left)

	deleted, err = store.DeleteBefore(ctx, start.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"auth", "content", "admin"}, Categories())
	for _, c := range Categories() {
		assert.True(t, IsCategory(c), "IsCategory(%q)", c)
	}
	for _, c := range []string{"", "settings", "Auth"} {
		assert.False(t, IsCategory(c), "IsCategory(%q)", c)
	}
}
