// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// セッションはFindByID時に遅延削除されるが、二度と参照されない
// 放置セッションとそのカートはストアに残り続けるため、
// 定期バッチで回収する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionPurger は期限切れセッションの一括削除インターフェース。
type SessionPurger interface {
	DeleteExpired(ctx context.Context) ([]string, error)
}

// CartCleaner はセッションに紐づくカートの破棄インターフェース。
type CartCleaner interface {
	Clear(ctx context.Context, sessionID string) error
}

// SessionCleanupJob は期限切れセッションと紐づくカートの自動削除ジョブ。
// 冪等であり、削除対象がない場合でもエラーにならない。
type SessionCleanupJob struct {
	sessions SessionPurger
	carts    CartCleaner
	logger   *slog.Logger
	Interval time.Duration // 実行間隔（デフォルト: 1時間）
}

// NewSessionCleanupJob は新しいSessionCleanupJobを生成する。
func NewSessionCleanupJob(sessions SessionPurger, carts CartCleaner, logger *slog.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessions: sessions,
		carts:    carts,
		logger:   logger,
		Interval: time.Hour,
	}
}

// Run は期限切れセッションを削除し、それぞれのカートを破棄する。
func (j *SessionCleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	expired, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("期限切れセッションの削除に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	for _, sessionID := range expired {
		if err := j.carts.Clear(ctx, sessionID); err != nil {
			j.logger.Error("カートの破棄に失敗しました",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("カートクリーンアップの実行に失敗: %w", err)
		}
	}

	duration := time.Since(start)
	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int("deleted_count", len(expired)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は起動直後に1回実行し、以降Interval間隔で定期実行する。
// ctxのキャンセルで停止する。バックグラウンドゴルーチンで呼ぶこと。
func (j *SessionCleanupJob) Start(ctx context.Context) {
	if err := j.Run(ctx); err != nil {
		j.logger.Error("cleanup job failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("cleanup job failed", slog.String("error", err.Error()))
			}
		}
	}
}
