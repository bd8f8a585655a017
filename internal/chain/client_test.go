package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newPriceClient(url string) *Client {
	return &Client{priceURL: url, httpClient: &http.Client{Timeout: time.Second}, log: zap.NewNop()}
}

func TestEthUsdPrice(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   float64
		ok     bool
	}{
		{"ok", http.StatusOK, `{"ethereum":{"usd":3120.55}}`, 3120.55, true},
		{"missing field", http.StatusOK, `{}`, 0, false},
		{"bad json", http.StatusOK, `{`, 0, false},
		{"rate limited", http.StatusTooManyRequests, `{"ethereum":{"usd":1}}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, ok := newPriceClient(srv.URL).EthUsdPrice(context.Background())
			if ok != tt.ok || got != tt.want {
				t.Errorf("EthUsdPrice() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEthUsdPriceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, ok := newPriceClient(url).EthUsdPrice(context.Background()); ok {
		t.Error("closed server should report no price")
	}
}
