package middleware

import "testing"

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/job/3f2a9c1b", "/job/:jobId"},
		{"/jobs", "/jobs"},
		{"/analyze", "/analyze"},
		{"/job/", "/job/"},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := sanitizePath(tt.in); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashIPForLog(t *testing.T) {
	a := hashIPForLog("203.0.113.7")
	if len(a) != 12 {
		t.Errorf("hash length = %d, want 12", len(a))
	}
	if a == hashIPForLog("203.0.113.8") {
		t.Error("different IPs should hash differently")
	}
	if a != hashIPForLog("203.0.113.7") {
		t.Error("hash should be stable")
	}
}
