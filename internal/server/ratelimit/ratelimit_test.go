package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	// Should allow requests up to the burst
	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/companies", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/companies", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
	if !info.ResetTime.After(time.Now()) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_Refill(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Second, // one token per 100ms
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		limiter.Allow("127.0.0.1", "/companies", "GET")
	}
	if allowed, _ := limiter.Allow("127.0.0.1", "/companies", "GET"); allowed {
		t.Fatal("Expected request to be denied once the burst is spent")
	}

	time.Sleep(150 * time.Millisecond)

	if allowed, _ := limiter.Allow("127.0.0.1", "/companies", "GET"); !allowed {
		t.Error("Expected request to be allowed after refill")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/companies", "GET")
		if !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
		if info.Limit != 0 {
			t.Errorf("Expected limit 0 for whitelisted, got %d", info.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("192.168.1.1", "/companies", "GET"); allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/reports", "GET"); !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/reports", Method: "GET", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/reports", "GET"); !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}
	allowed, info := limiter.Allow("127.0.0.1", "/reports", "GET")
	if allowed {
		t.Error("Expected 6th request to be denied")
	}
	if info.Limit != 5 {
		t.Errorf("Expected limit 5, got %d", info.Limit)
	}

	// other endpoints keep the default limit
	allowed, info = limiter.Allow("127.0.0.1", "/companies", "GET")
	if !allowed {
		t.Error("Expected other endpoint to be allowed")
	}
	if info.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", info.Limit)
	}
}

func TestLimiter_PrefixSharesBucket(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/companies/", Method: "GET", Limit: 2, Window: time.Hour},
		},
	})
	defer limiter.Stop()

	limiter.Allow("10.0.0.1", "/companies/acme", "GET")
	limiter.Allow("10.0.0.1", "/companies/globex", "GET")
	if allowed, _ := limiter.Allow("10.0.0.1", "/companies/initech", "GET"); allowed {
		t.Error("Expected prefix-matched paths to share one bucket")
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	config := DefaultConfig()
	config.DefaultLimit = 1
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET"); !allowed {
			t.Fatalf("Expected health request %d to be allowed", i+1)
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Hour,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/companies", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected exactly 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/companies", "GET")
	}
	if n := limiter.evictIdle(time.Now().Add(-time.Minute)); n != 0 {
		t.Errorf("Expected no recent limiter to be evicted, got %d", n)
	}
	if n := limiter.evictIdle(time.Now().Add(time.Second)); n != 3 {
		t.Errorf("Expected 3 idle limiters evicted, got %d", n)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(DefaultConfig())
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/companies/", Method: "GET", Limit: 10},
		{Path: "/companies/acme", Method: "GET", Limit: 1},
		{Path: "/reports", Method: "GET", Limit: 5},
	}

	tests := []struct {
		path, method string
		want         int
	}{
		{"/companies/acme", "GET", 1},
		{"/companies/globex", "GET", 10},
		{"/reports", "GET", 5},
		{"/reports", "POST", -1},
		{"/other", "GET", -1},
	}
	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		if tt.want < 0 {
			if got != nil {
				t.Errorf("%s %s: expected no match, got %+v", tt.method, tt.path, got)
			}
			continue
		}
		if got == nil || got.Limit != tt.want {
			t.Errorf("%s %s: expected limit %d, got %+v", tt.method, tt.path, tt.want, got)
		}
	}
}

func TestParseIPList(t *testing.T) {
	got := ParseIPList(" 10.0.0.1, ,10.0.0.2 ")
	if len(got) != 2 || !got["10.0.0.1"] || !got["10.0.0.2"] {
		t.Errorf("unexpected list: %v", got)
	}
	if len(ParseIPList("")) != 0 {
		t.Error("Expected empty list")
	}
}
