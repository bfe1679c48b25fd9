// internal/app/system/txn/txn.go

// Package txn runs a read-check-write sequence inside a MongoDB transaction
// when the deployment supports one. Standalone servers, which the tests and
// small installs use, run the same function without a transaction.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Func holds the operations to run. ctx is a mongo.SessionContext inside a
// transaction and the caller's context otherwise; use it for every call.
type Func func(ctx context.Context) error

// Run executes fn in a transaction, or directly when transactions are not
// supported. log may be nil.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn Func) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if log != nil {
			log.Warn("failed to start session, running without transaction", zap.Error(err))
		}
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Debug("transactions not supported, running without transaction", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions.
//
// Known error codes:
//   - 20: "Transaction numbers are only allowed on a replica set member or mongos"
//   - 51: IllegalOperation
//   - 263: operation not allowed in a multi-document transaction
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	// DocumentDB and older servers word it differently. Two keywords are
	// required so unrelated errors do not match.
	msg := strings.ToLower(err.Error())
	matches := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			matches++
		}
	}
	return matches >= 2
}
