package origin

import "testing"

func TestAllowlistIsTrusted(t *testing.T) {
	list := NewAllowlist([]string{"https://app.example.com", "http://localhost:5173/"}, "")

	tests := []struct {
		name    string
		origin  string
		trusted bool
	}{
		{"exact match", "https://app.example.com", true},
		{"trailing slash", "https://app.example.com/", true},
		{"case insensitive", "HTTPS://APP.EXAMPLE.COM", true},
		{"normalized config entry", "http://localhost:5173", true},
		{"unknown host", "https://evil.example.com", false},
		{"scheme mismatch", "http://app.example.com", false},
		{"subdomain", "https://sub.app.example.com", false},
		{"prefix attack", "https://app.example.com.evil.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := list.IsTrusted(tt.origin); got != tt.trusted {
				t.Errorf("IsTrusted(%q) = %v, want %v", tt.origin, got, tt.trusted)
			}
		})
	}
}

func TestAllowlistFallbackDefaultsToFirstOrigin(t *testing.T) {
	list := NewAllowlist([]string{"https://app.example.com", "https://b.example.com"}, "")
	if list.Fallback() != "https://app.example.com" {
		t.Fatalf("expected first origin as fallback, got %q", list.Fallback())
	}
}

func TestAllowlistExplicitFallback(t *testing.T) {
	list := NewAllowlist([]string{"https://app.example.com"}, "https://fallback.example.com/")
	if list.Fallback() != "https://fallback.example.com" {
		t.Fatalf("expected explicit fallback, got %q", list.Fallback())
	}
}
