package config

import (
	"net/http"
	"testing"
)

func TestLoadRequiresRedisURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"REDIS_URL":           "",
		"RAZORPAY_KEY_ID":     "rzp_test_key",
		"RAZORPAY_KEY_SECRET": "secret",
	})
	if err == nil {
		t.Fatal("expected error when REDIS_URL is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"REDIS_URL":           "redis://localhost:6379/0",
		"RAZORPAY_KEY_ID":     "rzp_test_key",
		"RAZORPAY_KEY_SECRET": "secret",
		"PORT":                "",
		"CURRENCY_CODE":       "",
		"DEFAULT_DELIVERY_FEE": "",
		"COOKIE_SAMESITE":     "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.HTTPAddr())
	}
	if cfg.Currency != "INR" {
		t.Fatalf("unexpected currency: %s", cfg.Currency)
	}
	if cfg.DefaultDeliveryFee != 40 {
		t.Fatalf("unexpected delivery fee: %d", cfg.DefaultDeliveryFee)
	}
	if cfg.CookieSameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected samesite: %v", cfg.CookieSameSite)
	}
	if cfg.MenuPollInterval.Seconds() != 60 {
		t.Fatalf("unexpected poll interval: %s", cfg.MenuPollInterval)
	}
}

func TestLoadRejectsNegativeDeliveryFee(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"REDIS_URL":            "redis://localhost:6379/0",
		"RAZORPAY_KEY_ID":      "rzp_test_key",
		"RAZORPAY_KEY_SECRET":  "secret",
		"DEFAULT_DELIVERY_FEE": "-5",
	})
	if err == nil {
		t.Fatal("expected error for negative delivery fee")
	}
}
