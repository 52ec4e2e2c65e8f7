package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"10.0.0.1:8080":    "10.0.0.1",
		"10.0.0.1":         "10.0.0.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"2001:db8::1":      "2001:db8::1",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFirstForwardedFor(t *testing.T) {
	if got := FirstForwardedFor(" 1.2.3.4 , 10.0.0.1"); got != "1.2.3.4" {
		t.Errorf("FirstForwardedFor() = %q, want 1.2.3.4", got)
	}
	if got := FirstForwardedFor(""); got != "" {
		t.Errorf("FirstForwardedFor(\"\") = %q, want empty", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", want: "192.0.2.1"},
		{
			name:    "headers ignored without trust",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4"},
			want:    "192.0.2.1",
		},
		{
			name:       "cloudflare first",
			headers:    map[string]string{"CF-Connecting-IP": "5.6.7.8", "X-Forwarded-For": "1.2.3.4"},
			trustProxy: true,
			want:       "5.6.7.8",
		},
		{
			name:       "forwarded for",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1", "X-Real-IP": "9.9.9.9"},
			trustProxy: true,
			want:       "1.2.3.4",
		},
		{
			name:       "real ip",
			headers:    map[string]string{"X-Real-IP": "9.9.9.9"},
			trustProxy: true,
			want:       "9.9.9.9",
		},
		{name: "no headers with trust", trustProxy: true, want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.10 ", "2001:db8::/32", "not-an-ip", ""})

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}

	tests := map[string]bool{
		"10.1.2.3":        true,
		"::ffff:10.1.2.3": true,
		"192.168.1.10":    true,
		"192.168.1.11":    false,
		"2001:db8::42":    true,
		"2001:db9::1":     false,
		"garbage":         false,
		"":                false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("IsEmpty() = false for no rules")
	}
}
