// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/elaspodem/internal/app/store/users"
	"github.com/dalemusser/elaspodem/internal/app/system/authutil"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AdminSeed describes the account created at startup so a fresh install can
// be signed into. Seeding is skipped when Email or Password is empty.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
	Role     string // defaults to superAdmin
}

// Enabled reports whether the seed carries credentials.
func (s AdminSeed) Enabled() bool {
	return s.Email != "" && s.Password != ""
}

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, admin AdminSeed, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := seedAdmin(ctx, userstore.New(db), admin, logger); err != nil {
		return err
	}
	return nil
}

// seedAdmin creates the admin account. An existing account with the same
// email keeps its role and password; it is only reactivated.
func seedAdmin(ctx context.Context, users *userstore.Store, seed AdminSeed, logger *zap.Logger) error {
	if !seed.Enabled() {
		logger.Debug("admin seed not configured")
		return nil
	}
	role := seed.Role
	if role == "" {
		role = models.RoleSuperAdmin
	}
	if !models.IsValidRole(role) {
		return fmt.Errorf("seed admin: %w: %q", userstore.ErrInvalidRole, role)
	}

	acct, err := authutil.ResolveAccount(authutil.AccountInput{
		Email:       seed.Email,
		DisplayName: seed.Name,
		Password:    seed.Password,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	existing, err := users.GetByEmail(ctx, acct.Email)
	switch {
	case err == nil:
		if existing.Active {
			logger.Info("seed admin already present", zap.String("email", acct.Email))
			return nil
		}
		active := true
		if _, err := users.Update(ctx, existing.ID, userstore.UserUpdate{Active: &active}); err != nil {
			return fmt.Errorf("seed admin: reactivate: %w", err)
		}
		logger.Info("seed admin reactivated", zap.String("email", acct.Email))
		return nil
	case !errors.Is(err, userstore.ErrNotFound):
		return fmt.Errorf("seed admin: lookup: %w", err)
	}

	created, err := users.Create(ctx, models.User{
		Email:        acct.Email,
		DisplayName:  acct.DisplayName,
		Role:         role,
		Active:       true,
		PasswordHash: acct.PasswordHash,
	})
	if err != nil {
		return fmt.Errorf("seed admin: create: %w", err)
	}
	logger.Info("seeded admin user",
		zap.String("email", created.Email),
		zap.String("role", created.Role),
		zap.String("user_id", created.ID.Hex()))
	return nil
}
