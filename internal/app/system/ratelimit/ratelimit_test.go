package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllow_WithinLimit(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request over the limit should be denied")
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	l := New(1, time.Minute)
	if !l.Allow("a") {
		t.Error("first request for key a should be allowed")
	}
	if !l.Allow("b") {
		t.Error("first request for key b should be allowed")
	}
	if l.Allow("a") {
		t.Error("second request for key a should be denied")
	}
}

func TestAllow_WindowExpires(t *testing.T) {
	l := New(1, 10*time.Millisecond)
	if !l.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("second request in window should be denied")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request after window expiry should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr with port", "10.0.0.1:5000", "", "", "10.0.0.1"},
		{"x-forwarded-for single", "10.0.0.1:5000", "203.0.113.7", "", "203.0.113.7"},
		{"x-forwarded-for list", "10.0.0.1:5000", "203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:5000", "", "203.0.113.9", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/onboarding", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
