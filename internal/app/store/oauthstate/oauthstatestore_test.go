package oauthstate

import (
	"testing"
	"time"

	"github.com/dalemusser/elaspodem/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_CreateAndVerify(t *testing.T) {
	store := New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "state-abc"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !store.Verify(ctx, "state-abc") {
		t.Error("Verify() of a fresh state = false")
	}
	if store.Verify(ctx, "state-abc") {
		t.Error("Verify() redeemed the same state twice")
	}
}

func TestStore_Create_UniqueConstraint(t *testing.T) {
	store := New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "duplicate"); err != nil {
		t.Fatalf("Create() first call error = %v", err)
	}
	if err := store.Create(ctx, "duplicate"); err == nil {
		t.Error("Create() with duplicate state should fail")
	}
}

func TestStore_Verify_Rejects(t *testing.T) {
	store := New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if store.Verify(ctx, "") {
		t.Error("Verify(\"\") = true")
	}
	if store.Verify(ctx, "never-issued") {
		t.Error("Verify() of an unknown state = true")
	}
}

func TestStore_Expiry(t *testing.T) {
	store := New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	if err := store.Create(ctx, "slow"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var doc State
	if err := store.c.FindOne(ctx, bson.M{"state": "slow"}).Decode(&doc); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	if !doc.ExpiresAt.Equal(now.Add(TTL)) {
		t.Errorf("ExpiresAt = %v, want %v", doc.ExpiresAt, now.Add(TTL))
	}

	store.now = func() time.Time { return now.Add(TTL + time.Second) }
	if store.Verify(ctx, "slow") {
		t.Error("Verify() after TTL = true")
	}
}

func TestStore_Generate(t *testing.T) {
	store := New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := store.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if a == b || len(a) < 40 {
		t.Errorf("Generate() = %q, %q; want distinct long tokens", a, b)
	}
	if !store.Verify(ctx, a) {
		t.Error("Verify() of a generated state = false")
	}
}
