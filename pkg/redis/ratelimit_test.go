package redis

import (
	"context"
	"testing"
	"time"
)

func disabledLimiter(configs ...RateLimitConfig) *RateLimiter {
	return NewRateLimiter(&Client{}, "test", configs...)
}

func TestAllow_FallbackBurstExhausted(t *testing.T) {
	lim := disabledLimiter(YahooRateLimit)

	// バースト分 (Limit回) は通り、その直後は拒否される
	for i := 0; i < YahooRateLimit.Limit; i++ {
		allowed, _, err := lim.Allow(context.Background(), YahooRateLimit)
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d denied within burst of %d", i+1, YahooRateLimit.Limit)
		}
	}

	allowed, _, err := lim.Allow(context.Background(), YahooRateLimit)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if allowed {
		t.Error("request beyond burst was allowed")
	}
}

func TestAllow_UnregisteredKeyPassesThrough(t *testing.T) {
	lim := disabledLimiter(NewsRateLimit)

	allowed, remaining, err := lim.Allow(context.Background(), RateLimitConfig{
		Key:    "unknown",
		Limit:  1,
		Window: time.Second,
	})
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !allowed || remaining != 1 {
		t.Errorf("Allow = (%v, %d), want pass-through for unregistered key", allowed, remaining)
	}
}

func TestWait_CancelledContext(t *testing.T) {
	lim := disabledLimiter(NewsRateLimit)

	// バーストを使い切ってから即キャンセル
	for i := 0; i < NewsRateLimit.Limit; i++ {
		if _, _, err := lim.Allow(context.Background(), NewsRateLimit); err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := lim.Wait(ctx, NewsRateLimit); err == nil {
		t.Error("Wait returned nil on a cancelled context with an exhausted limit")
	}
}
