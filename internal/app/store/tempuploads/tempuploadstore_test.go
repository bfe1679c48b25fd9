package tempuploads

import (
	"testing"
	"time"

	"github.com/dalemusser/elaspodem/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	if store == nil {
		t.Fatal("New() returned nil")
	}
}

func TestStore_Track(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	input := TrackInput{
		SessionID:   "sess-1",
		URL:         "/files/images/hero/hero-1.png",
		StoragePath: "images/hero/hero-1.png",
		Category:    "hero",
		Size:        2048,
		ContentType: "image/png",
		CreatedByID: primitive.NewObjectID().Hex(),
	}
	u, err := store.Track(ctx, input)
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if u.ID.IsZero() {
		t.Error("ID should not be zero")
	}
	if u.URL != input.URL {
		t.Errorf("URL = %v, want %v", u.URL, input.URL)
	}

	if _, err := store.Track(ctx, TrackInput{URL: "x"}); err == nil {
		t.Error("Track() without session error = nil")
	}
}

func TestStore_ListAndDeleteURLs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, url := range []string{"/a.png", "/b.png"} {
		if _, err := store.Track(ctx, TrackInput{SessionID: "s1", URL: url}); err != nil {
			t.Fatalf("Track() error = %v", err)
		}
	}
	if _, err := store.Track(ctx, TrackInput{SessionID: "s2", URL: "/a.png"}); err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	list, err := store.ListSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ListSession() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListSession() len = %d, want 2", len(list))
	}

	n, err := store.DeleteURLs(ctx, "s1", []string{"/a.png"})
	if err != nil {
		t.Fatalf("DeleteURLs() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteURLs() = %d, want 1", n)
	}
	// The other session's record with the same URL is untouched.
	other, _ := store.ListSession(ctx, "s2")
	if len(other) != 1 {
		t.Errorf("session s2 len = %d, want 1", len(other))
	}
	if n, _ := store.DeleteURLs(ctx, "s1", nil); n != 0 {
		t.Errorf("DeleteURLs(nil) = %d", n)
	}
}

func TestStore_ListCreatedBeforeAndDeleteIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Track(ctx, TrackInput{SessionID: "s1", URL: "/old.png"})
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	none, err := store.ListCreatedBefore(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListCreatedBefore() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListCreatedBefore(past) len = %d, want 0", len(none))
	}

	all, _ := store.ListCreatedBefore(ctx, time.Now().Add(time.Minute))
	if len(all) != 1 {
		t.Fatalf("ListCreatedBefore(future) len = %d, want 1", len(all))
	}

	n, err := store.DeleteIDs(ctx, []primitive.ObjectID{u.ID})
	if err != nil || n != 1 {
		t.Errorf("DeleteIDs() = %d, %v", n, err)
	}
}
