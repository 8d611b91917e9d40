package cache

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func disabledClient() *Client {
	return NewClient(nil, Config{App: "havf", Env: "test", Version: "v1"})
}

func TestHashParams_IsOrderIndependent(t *testing.T) {
	a := HashParams(map[string]string{"b": "2", "a": "1"})
	b := HashParams(map[string]string{"a": "1", "b": "2"})
	if a != b {
		t.Errorf("expected map iteration order not to affect the hash: %q != %q", a, b)
	}
}

func TestHashParams_DropsEmptyValues(t *testing.T) {
	withEmpty := HashParams(map[string]string{"a": "1", "b": ""})
	without := HashParams(map[string]string{"a": "1"})
	if withEmpty != without {
		t.Errorf("expected an empty-valued param to be dropped from the hash input")
	}
}

func TestClient_UpstreamKey_IncludesMethodAndHost(t *testing.T) {
	c := NewClient(nil, Config{App: "havf", Env: "prod", Version: "v1"})
	key := c.UpstreamKey("GET", "statsapi.mlb.com", "/api/v1/teams/138/roster")

	want := "havf:prod:v1:upstream:GET:statsapi.mlb.com:"
	if len(key) <= len(want) || key[:len(want)] != want {
		t.Errorf("key = %q, want prefix %q", key, want)
	}
}

func TestClient_KeyPrefix_WithAndWithoutResource(t *testing.T) {
	c := NewClient(nil, Config{App: "havf", Env: "prod", Version: "v1"})

	if got := c.KeyPrefix(KeyTypeUpstream, ""); got != "havf:prod:v1:upstream" {
		t.Errorf("KeyPrefix(no resource) = %q", got)
	}
	if got := c.KeyPrefix(KeyTypeUpstream, "mlb"); got != "havf:prod:v1:upstream:mlb" {
		t.Errorf("KeyPrefix(resource) = %q", got)
	}
}

func TestClient_Get_DisabledCacheAlwaysMisses(t *testing.T) {
	c := disabledClient()
	var dest map[string]string
	if c.Get(context.Background(), "any-key", &dest) {
		t.Error("expected a disabled client to always report a cache miss")
	}
}

func TestClient_Set_DisabledCacheIsANoOp(t *testing.T) {
	c := disabledClient()
	if err := c.Set(context.Background(), "any-key", map[string]string{"a": "1"}, time.Minute); err != nil {
		t.Errorf("expected Set on a disabled client to be a no-op, got %v", err)
	}
}

func TestClient_GetOrCompute_DisabledCacheAlwaysComputes(t *testing.T) {
	c := disabledClient()
	calls := 0
	compute := func() (any, error) {
		calls++
		return "computed", nil
	}

	for i := 0; i < 3; i++ {
		val, err := c.GetOrCompute(context.Background(), "k", time.Minute, compute)
		if err != nil {
			t.Fatalf("GetOrCompute: %v", err)
		}
		if val != "computed" {
			t.Errorf("val = %v", val)
		}
	}
	if calls != 3 {
		t.Errorf("expected compute to run on every call with caching disabled, ran %d times", calls)
	}
}

func TestParseCacheControlMaxAge(t *testing.T) {
	cases := []struct {
		header string
		want   time.Duration
	}{
		{"max-age=60", 60 * time.Second},
		{"public, max-age=120", 120 * time.Second},
		{"private, max-age=30", 30 * time.Second},
		{"no-store", 0},
		{"", 0},
		{"max-age=0", 0},
	}

	for _, tc := range cases {
		if got := ParseCacheControlMaxAge(tc.header); got != tc.want {
			t.Errorf("ParseCacheControlMaxAge(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}

func TestUpstreamCacheConfig_DetermineTTL(t *testing.T) {
	cfg := DefaultUpstreamConfig()

	withMaxAge := &http.Response{Header: http.Header{"Cache-Control": {"max-age=60"}}}
	if got := cfg.DetermineTTL(withMaxAge); got != 60*time.Second {
		t.Errorf("DetermineTTL(max-age=60) = %v, want 60s", got)
	}

	exceedsCap := &http.Response{Header: http.Header{"Cache-Control": {"max-age=99999"}}}
	if got := cfg.DetermineTTL(exceedsCap); got != cfg.MaxTTL {
		t.Errorf("DetermineTTL(huge max-age) = %v, want capped at %v", got, cfg.MaxTTL)
	}

	noDirective := &http.Response{Header: http.Header{}}
	if got := cfg.DetermineTTL(noDirective); got != cfg.DefaultTTL {
		t.Errorf("DetermineTTL(no Cache-Control) = %v, want default %v", got, cfg.DefaultTTL)
	}

	ignoring := cfg
	ignoring.RespectCacheControl = false
	if got := ignoring.DetermineTTL(withMaxAge); got != ignoring.DefaultTTL {
		t.Errorf("DetermineTTL with RespectCacheControl=false = %v, want default", got)
	}
}

func TestUpstreamCacheMetrics_HitRate(t *testing.T) {
	m := &UpstreamCacheMetrics{Hits: 3, Misses: 1}
	if got := m.HitRate(); got != 75 {
		t.Errorf("HitRate = %d, want 75", got)
	}

	empty := &UpstreamCacheMetrics{}
	if got := empty.HitRate(); got != 0 {
		t.Errorf("HitRate with no samples = %d, want 0", got)
	}
}
