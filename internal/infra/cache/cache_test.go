package cache_test

import (
	"testing"
	"time"

	"github.com/smartwallet/bff-go/internal/infra/cache"
)

func TestTTLMap_SetAndGet(t *testing.T) {
	c := cache.New[map[string]float64](time.Hour)
	defer c.Close()

	c.Set("USD", map[string]float64{"EUR": 0.85})
	rates, ok := c.Get("USD")
	if !ok {
		t.Fatal("expected cached rates for USD")
	}
	if rates["EUR"] != 0.85 {
		t.Errorf("expected EUR rate 0.85, got %f", rates["EUR"])
	}
}

func TestTTLMap_MissOnUnknownKey(t *testing.T) {
	c := cache.New[string](time.Hour)
	defer c.Close()

	if _, ok := c.Get("GBP"); ok {
		t.Fatal("expected miss for a key never set")
	}
}

func TestTTLMap_ExpiredEntryIsAMissAndIsDropped(t *testing.T) {
	c := cache.New[string](20 * time.Millisecond)
	defer c.Close()

	c.Set("AAPL", "quote")
	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("AAPL"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if n := c.Len(); n != 0 {
		t.Errorf("expected expired entry removed on read, still %d entries", n)
	}
}

func TestTTLMap_SetRestartsTTL(t *testing.T) {
	c := cache.New[string](60 * time.Millisecond)
	defer c.Close()

	c.Set("general", "headlines-v1")
	time.Sleep(40 * time.Millisecond)
	c.Set("general", "headlines-v2")
	time.Sleep(40 * time.Millisecond)

	val, ok := c.Get("general")
	if !ok {
		t.Fatal("expected refreshed entry to still be live")
	}
	if val != "headlines-v2" {
		t.Errorf("expected latest value, got %q", val)
	}
}

func TestTTLMap_Delete(t *testing.T) {
	c := cache.New[string](time.Hour)
	defer c.Close()

	c.Set("TSLA", "quote")
	c.Delete("TSLA")

	if _, ok := c.Get("TSLA"); ok {
		t.Fatal("expected deleted key to miss")
	}
}

func TestTTLMap_CloseIsIdempotent(t *testing.T) {
	c := cache.New[string](time.Hour)

	c.Close()
	c.Close()

	// The cache stays usable after Close; only the janitor stops.
	c.Set("USD", "rates")
	if _, ok := c.Get("USD"); !ok {
		t.Fatal("expected cache to remain readable after Close")
	}
}
