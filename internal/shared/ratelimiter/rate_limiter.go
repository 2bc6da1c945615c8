// Package ratelimiter は外部API（マーケットデータプロバイダー）への呼び出し頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Limiter は呼び出しが許可されるか ctx が終了するまでブロックするインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter はトークンバケットで interval あたり limit 回までの呼び出しを許可します。
// バースト上限も limit です。
type RateLimiter struct {
	limiter *rate.Limiter
	limit   int // interval あたりの上限
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。limit が0以下なら制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(interval/time.Duration(limit)), limit),
		limit:   limit,
	}
}

// Wait はトークンを1つ確保し、バケットが空なら補充まで待機します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limiter.Tokens() < 1 && rl.limit > 0 {
		slog.Debug("rate limit reached, waiting", "limit", rl.limit)
	}
	return rl.limiter.Wait(ctx)
}
