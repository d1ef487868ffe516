package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coinlend-backend/internal/domain/credit"
	"coinlend-backend/pkg/id"

	"github.com/redis/go-redis/v9"
)

// AttemptWindow is a sliding-window counter backed by one sorted set per
// user and action. Members are scored by attempt time in nanoseconds.
type AttemptWindow struct {
	rdb    *redis.Client
	window time.Duration
	prefix string
}

func NewAttemptWindow(rdb *redis.Client, window time.Duration) *AttemptWindow {
	if window <= 0 {
		window = credit.VelocityWindow
	}
	return &AttemptWindow{rdb: rdb, window: window, prefix: "credit"}
}

func (w *AttemptWindow) attemptsKey(userID string, a credit.Action) string {
	return fmt.Sprintf("%s:attempts:%s:%s", w.prefix, a, userID)
}

func (w *AttemptWindow) penalizedKey(userID string, a credit.Action) string {
	return fmt.Sprintf("%s:penalized:%s:%s", w.prefix, a, userID)
}

func (w *AttemptWindow) Record(ctx context.Context, userID string, action credit.Action, now time.Time) (int, error) {
	key := w.attemptsKey(userID, action)
	ts := now.UnixNano()
	cutoff := now.Add(-w.window).UnixNano()

	pipe := w.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(ts), Member: id.NewID32()})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, w.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(card.Val()), nil
}

func (w *AttemptWindow) MarkPenalized(ctx context.Context, userID string, action credit.Action) (bool, error) {
	return w.rdb.SetNX(ctx, w.penalizedKey(userID, action), "1", w.window).Result()
}

var _ credit.AttemptWindow = (*AttemptWindow)(nil)
