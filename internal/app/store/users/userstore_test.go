package userstore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/dalemusser/elaspodem/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Email:       "  Ana@ElasPodem.org ",
		DisplayName: " Ana Souza ",
		Role:        models.RoleWriter,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID.IsZero() {
		t.Error("Create() did not assign ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
	if created.Email != "ana@elaspodem.org" {
		t.Errorf("Create() Email = %q, want lowercase trimmed", created.Email)
	}
	if created.DisplayName != "Ana Souza" {
		t.Errorf("Create() DisplayName = %q, want %q", created.DisplayName, "Ana Souza")
	}
	if created.DisplayNameCI == "" {
		t.Error("Create() did not set DisplayNameCI")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, role := range []string{"editor", "SuperAdmin", ""} {
		_, err := store.Create(ctx, models.User{Email: "x@elaspodem.org", Role: role})
		if !errors.Is(err, ErrInvalidRole) {
			t.Errorf("Create(role=%q) error = %v, want ErrInvalidRole", role, err)
		}
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "dup@elaspodem.org", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	_, err := store.Create(ctx, models.User{Email: "DUP@elaspodem.org", Role: models.RoleWriter})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("second Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.User{Email: "bia@elaspodem.org", Role: models.RoleModerator})

	got, err := store.GetByEmail(ctx, " BIA@elaspodem.org")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail() ID = %v, want %v", got.ID, created.ID)
	}

	if _, err := store.GetByEmail(ctx, "nobody@elaspodem.org"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByEmail(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	empty, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List() on empty collection = %v, want empty non-nil", empty)
	}

	for _, u := range []models.User{
		{Email: "c@elaspodem.org", DisplayName: "carla", Role: models.RoleWriter},
		{Email: "a@elaspodem.org", DisplayName: "Ágata", Role: models.RoleAdmin},
		{Email: "b@elaspodem.org", DisplayName: "Bruna", Role: models.RoleModerator},
	} {
		if _, err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var got []string
	for _, u := range users {
		got = append(got, u.DisplayName)
	}
	want := []string{"Ágata", "Bruna", "carla"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.User{Email: "w@elaspodem.org", DisplayName: "W", Role: models.RoleWriter, Active: true})

	upd := UserUpdate{DisplayName: ptr("Walquíria"), Role: ptr(models.RoleModerator), Active: ptr(false)}
	got, err := store.Update(ctx, created.ID, upd)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.DisplayName != "Walquíria" || got.Role != models.RoleModerator || got.Active {
		t.Errorf("Update() = %+v", got)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) && !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("Update() did not bump UpdatedAt")
	}
	if f := upd.Fields(); len(f) != 3 {
		t.Errorf("Fields() = %v, want 3 names", f)
	}
}

func TestStore_Update_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root, _ := store.Create(ctx, models.User{Email: "root@elaspodem.org", Role: models.RoleSuperAdmin, Active: true})
	writer, _ := store.Create(ctx, models.User{Email: "w@elaspodem.org", Role: models.RoleWriter, Active: true})

	tests := []struct {
		name string
		id   primitive.ObjectID
		upd  UserUpdate
		want error
	}{
		{"deactivate superAdmin", root.ID, UserUpdate{Active: ptr(false)}, ErrSuperAdminProtected},
		{"demote superAdmin", root.ID, UserUpdate{Role: ptr(models.RoleAdmin)}, ErrSuperAdminProtected},
		{"invalid role", writer.ID, UserUpdate{Role: ptr("owner")}, ErrInvalidRole},
		{"missing user", primitive.NewObjectID(), UserUpdate{Active: ptr(true)}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Update(ctx, tt.id, tt.upd); !errors.Is(err, tt.want) {
				t.Errorf("Update() error = %v, want %v", err, tt.want)
			}
		})
	}

	// A superAdmin may still be renamed or kept active.
	got, err := store.Update(ctx, root.ID, UserUpdate{DisplayName: ptr("Root"), Active: ptr(true)})
	if err != nil {
		t.Fatalf("Update(superAdmin rename) error = %v", err)
	}
	if got.Role != models.RoleSuperAdmin || !got.Active {
		t.Errorf("superAdmin changed: %+v", got)
	}
}

func TestStore_SetPasswordAndTouch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, _ := store.Create(ctx, models.User{Email: "p@elaspodem.org", Role: models.RoleAdmin})
	if err := store.SetPassword(ctx, u.ID, "$2a$12$hash"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	at := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	if err := store.TouchLastLogin(ctx, u.ID, at); err != nil {
		t.Fatalf("TouchLastLogin() error = %v", err)
	}

	got, _ := store.GetByID(ctx, u.ID)
	if got.PasswordHash == nil || *got.PasswordHash != "$2a$12$hash" {
		t.Errorf("PasswordHash = %v", got.PasswordHash)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(at) {
		t.Errorf("LastLogin = %v, want %v", got.LastLogin, at)
	}

	if err := store.SetPassword(ctx, primitive.NewObjectID(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetPassword(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Count(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _ = store.Create(ctx, models.User{Email: "a@elaspodem.org", Role: models.RoleAdmin, Active: true})
	_, _ = store.Create(ctx, models.User{Email: "b@elaspodem.org", Role: models.RoleWriter})

	n, err := store.Count(ctx, bson.M{"active": true})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count(active) = %d, want 1", n)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fetcher := NewFetcher(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Email:       "fetch@elaspodem.org",
		DisplayName: "Fetch User",
		Role:        models.RoleModerator,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	su := fetcher.FetchUser(ctx, created.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser() returned nil for active user")
	}
	if su.ID != created.ID.Hex() || su.Name != "Fetch User" || su.Email != "fetch@elaspodem.org" || su.Role != models.RoleModerator {
		t.Errorf("FetchUser() = %+v", su)
	}
}

func TestFetcher_FetchUser_Rejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fetcher := NewFetcher(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inactive, _ := store.Create(ctx, models.User{Email: "off@elaspodem.org", Role: models.RoleAdmin, Active: false})

	// A role written outside the store (e.g. by hand in the shell).
	badRole := primitive.NewObjectID()
	testutil.InsertDoc(t, db, Collection, bson.M{
		"_id": badRole, "email": "bad@elaspodem.org", "role": "Admin", "active": true,
	})

	tests := []struct {
		name string
		id   string
	}{
		{"inactive", inactive.ID.Hex()},
		{"invalid role", badRole.Hex()},
		{"not found", primitive.NewObjectID().Hex()},
		{"malformed id", "not-an-id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if su := fetcher.FetchUser(ctx, tt.id); su != nil {
				t.Errorf("FetchUser() = %+v, want nil", su)
			}
		})
	}
}
