// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/elaspodem/internal/app/system/indexes"
	"github.com/dalemusser/elaspodem/internal/app/system/seeding"
	"github.com/dalemusser/elaspodem/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB pool and the image store. If the store cannot
// be opened the pool is closed again.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	pool := wafflemongo.DefaultPoolConfig()
	if n := appCfg.MongoMaxPoolSize; n > 0 {
		pool.MaxPoolSize = n
	}
	if n := appCfg.MongoMinPoolSize; n > 0 {
		pool.MinPoolSize = n
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, pool)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	logger.Info("mongo connected",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("pool_max", pool.MaxPoolSize),
		zap.Uint64("pool_min", pool.MinPoolSize))

	files, err := openStorage(ctx, appCfg, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		FileStorage:   files,
	}, nil
}

// openStorage opens the backend that holds uploaded images: a local
// directory served under StorageLocalURL, or S3 behind CloudFront.
func openStorage(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (storage.Store, error) {
	switch appCfg.StorageType {
	case "", "local":
		st, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("open local image storage: %w", err)
		}
		logger.Info("image storage: local",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL))
		return st, nil

	case "s3":
		st, err := storage.NewS3(ctx, storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 image storage: %w", err)
		}
		logger.Info("image storage: s3",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("prefix", appCfg.StorageS3Prefix),
			zap.Bool("cloudfront", appCfg.StorageCFURL != ""))
		return st, nil
	}
	return nil, fmt.Errorf("unknown storage type %q", appCfg.StorageType)
}

// EnsureSchema prepares the database before Startup: collections and their
// validators first, then indexes on them, then the first admin account. The
// home page document is not seeded; until an editor saves it the public
// endpoint serves the placeholder.
//
// ctx is bounded by coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	admin := seeding.AdminSeed{
		Email:    appCfg.SeedAdminEmail,
		Password: appCfg.SeedAdminPassword,
		Name:     appCfg.SeedAdminName,
		Role:     appCfg.SeedAdminRole,
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"collections and validators", func() error { return validators.EnsureAll(ctx, db, logger) }},
		{"indexes", func() error { return indexes.EnsureAll(ctx, db) }},
		{"seed admin", func() error { return seeding.SeedAll(ctx, db, admin, logger) }},
	}
	for _, s := range steps {
		logger.Info("schema: " + s.name)
		if err := s.run(); err != nil {
			logger.Error("schema step failed", zap.String("step", s.name), zap.Error(err))
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	logger.Info("schema ready")
	return nil
}
