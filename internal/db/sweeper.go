package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartSessionSweeper deletes expired session rows with interval.
// A session is expired once its issue time is older than the token lifetime,
// so the table does not accumulate rows for tokens that can no longer verify.
func StartSessionSweeper(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	tokenTTL time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-tokenTTL)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM user_tokens
                     WHERE issued_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to sweep expired sessions", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("swept expired sessions", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
