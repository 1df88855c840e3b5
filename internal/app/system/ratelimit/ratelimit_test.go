// internal/app/system/ratelimit/ratelimit_test.go

package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request over the limit allowed, want denied")
	}
	// Other keys have their own window.
	if !l.Allow("5.6.7.8") {
		t.Error("unrelated key denied")
	}
}

func TestWindowExpiry(t *testing.T) {
	l := New(1, 30*time.Millisecond)

	if !l.Allow("1.2.3.4") {
		t.Fatal("first request denied")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("second request in window allowed")
	}

	time.Sleep(50 * time.Millisecond)
	if !l.Allow("1.2.3.4") {
		t.Error("request after window expiry denied")
	}
}

func TestReset(t *testing.T) {
	l := New(1, time.Minute)

	l.Allow("1.2.3.4")
	if l.Allow("1.2.3.4") {
		t.Fatal("over-limit request allowed")
	}

	l.Reset("1.2.3.4")
	if !l.Allow("1.2.3.4") {
		t.Error("request after Reset denied")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.0.2.1:51234",
			want:       "192.0.2.1",
		},
		{
			name:       "x-forwarded-for wins",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "unparseable remote addr passes through",
			remoteAddr: "not-an-addr",
			want:       "not-an-addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
