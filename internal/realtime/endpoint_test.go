package realtime

import (
	"net/http/httptest"
	"testing"
)

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin header", "", true},
		{"same host", "http://dash.internal:8080", true},
		{"other host", "http://evil.example", false},
		{"other port", "http://dash.internal:9999", false},
		{"unparseable", "://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "http://dash.internal:8080/ws", nil)
			r.Host = "dash.internal:8080"
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := upgrader.CheckOrigin(r); got != tt.want {
				t.Errorf("CheckOrigin with origin %q = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
