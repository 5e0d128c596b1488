package middleware

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "trusted proxy with X-Forwarded-For",
			remoteAddr: "10.0.0.1:443",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "trusted proxy with X-Real-IP",
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Real-IP": "198.51.100.4"},
			want:       "198.51.100.4",
		},
		{
			name:       "untrusted peer cannot spoof via headers",
			remoteAddr: "203.0.113.7:51234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4"},
			want:       "203.0.113.7",
		},
		{
			name:       "garbage forwarded value falls back to peer",
			remoteAddr: "192.168.1.10:1234",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "192.168.1.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			if got := ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over the limit should be rejected")
	}

	// Other clients have their own budget.
	if !rl.Allow("5.6.7.8") {
		t.Error("different client should be allowed")
	}
}

func TestRequestID(t *testing.T) {
	id := NewRequestID()
	if !strings.HasPrefix(id, "req_") {
		t.Errorf("NewRequestID() = %q, want req_ prefix", id)
	}
	if id == NewRequestID() {
		t.Error("request IDs should be unique")
	}

	ctx := WithRequestID(context.Background(), id)
	got, ok := RequestIDFrom(ctx)
	if !ok || got != id {
		t.Errorf("RequestIDFrom() = %q, %v; want %q, true", got, ok, id)
	}

	if _, ok := RequestIDFrom(context.Background()); ok {
		t.Error("RequestIDFrom() on empty context should report false")
	}
}
