// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/system/normalize"
	"github.com/dalemusser/elaspodem/internal/app/system/txn"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the users collection name.
const Collection = "users"

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when another user already has the email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidRole is returned for a role outside models.AllRoles.
	ErrInvalidRole = errors.New("invalid role")
	// ErrSuperAdminProtected is returned when an update would deactivate or
	// demote a superAdmin.
	ErrSuperAdminProtected = errors.New("a super admin cannot be deactivated or demoted")
)

type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection(Collection), now: time.Now}
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail loads a user by email. The lookup is case-insensitive because
// stored emails are lowercase.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// Create inserts a new user after normalising and validating fields. The ID
// and timestamps are assigned here.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.DisplayNameCI = text.Fold(u.DisplayName)
	u.Role = normalize.Role(u.Role)

	if !models.IsValidRole(u.Role) {
		return models.User{}, ErrInvalidRole
	}

	now := s.now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// List returns all users ordered by display name.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_name_ci", Value: 1}, {Key: "email", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserUpdate holds the fields an admin may change. Nil fields are left as
// they are.
type UserUpdate struct {
	DisplayName *string
	Role        *string
	Active      *bool
}

// Fields returns the names of the fields the update sets.
func (upd UserUpdate) Fields() []string {
	var f []string
	if upd.DisplayName != nil {
		f = append(f, "displayName")
	}
	if upd.Role != nil {
		f = append(f, "role")
	}
	if upd.Active != nil {
		f = append(f, "active")
	}
	return f
}

// Update applies upd to the user and returns the stored result. A superAdmin
// can never be deactivated or given another role. The role check and the
// write run in one transaction where the deployment supports it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	var out *models.User
	err := txn.Run(ctx, s.db, nil, func(ctx context.Context) error {
		u, err := s.update(ctx, id, upd)
		out = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": s.now()}
	if upd.DisplayName != nil {
		name := normalize.Name(*upd.DisplayName)
		set["display_name"] = name
		set["display_name_ci"] = text.Fold(name)
	}
	if upd.Role != nil {
		role := normalize.Role(*upd.Role)
		if !models.IsValidRole(role) {
			return nil, ErrInvalidRole
		}
		if cur.Role == models.RoleSuperAdmin && role != models.RoleSuperAdmin {
			return nil, ErrSuperAdminProtected
		}
		set["role"] = role
	}
	if upd.Active != nil {
		if cur.Role == models.RoleSuperAdmin && !*upd.Active {
			return nil, ErrSuperAdminProtected
		}
		set["active"] = *upd.Active
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SetPassword replaces the user's password hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    s.now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful sign-in.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

// Count returns the number of users matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
