package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PUSH_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.PushURL != "ws://localhost:8080/push" {
		t.Errorf("PushURL = %q", cfg.PushURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://market.example.com/api")
	t.Setenv("PUSH_URL", "wss://push.example.com/push")
	t.Setenv("HTTP_TIMEOUT", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_abc")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PushURL != "wss://push.example.com/push" {
		t.Errorf("explicit PUSH_URL must win, got %q", cfg.PushURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.RazorpayKeyID != "rzp_test_abc" {
		t.Errorf("RazorpayKeyID = %q", cfg.RazorpayKeyID)
	}
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PUSH_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want default", cfg.HTTPTimeout)
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PUSH_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestDerivePushURL(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    string
		wantErr bool
	}{
		"http with api suffix":  {in: "http://localhost:8080/api", want: "ws://localhost:8080/push"},
		"https with api suffix": {in: "https://market.example.com/api", want: "wss://market.example.com/push"},
		"trailing slash":        {in: "http://localhost:8080/api/", want: "ws://localhost:8080/push"},
		"no api suffix":         {in: "http://localhost:8080", want: "ws://localhost:8080/push"},
		"already socket scheme": {in: "wss://push.example.com", want: "wss://push.example.com/push"},
		"unsupported scheme":    {in: "ftp://example.com", wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DerivePushURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DerivePushURL(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DerivePushURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
