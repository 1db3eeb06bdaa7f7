package main

import "testing"

func TestMonitorURL(t *testing.T) {
	tests := map[string]string{
		"":               "",
		":8080":          "http://localhost:8080",
		"0.0.0.0:9000":   "http://localhost:9000",
		"127.0.0.1:8080": "http://127.0.0.1:8080",
		"[::]:8080":      "http://localhost:8080",
		"[::1]:8080":     "http://[::1]:8080",
		"bogus":          "",
	}
	for listen, want := range tests {
		if got := monitorURL(listen); got != want {
			t.Errorf("monitorURL(%q) = %q, want %q", listen, got, want)
		}
	}
}

func TestStatusPageEmbedded(t *testing.T) {
	if len(statusPage) == 0 {
		t.Fatal("status page missing")
	}
}
