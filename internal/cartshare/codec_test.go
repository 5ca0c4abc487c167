package cartshare

import (
	"encoding/base64"
	"testing"

	"github.com/brewcart/internal/models"
)

func mustMoney(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(s)
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	return m
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	items := []CartItem{
		{ID: "1", Name: "Caramel Latte", Price: mustMoney(t, "4.99"), Quantity: 2, Category: "hot"},
		{ID: "2", Name: "Cold Brew", Price: mustMoney(t, "3.50"), Quantity: 1, Category: "cold"},
	}

	token, err := Encode(items)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if token == "" {
		t.Fatal("token should not be empty")
	}

	payload := Decode(token)
	if payload == nil {
		t.Fatal("decode returned nil for valid token")
	}
	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 items, got: %d", len(payload.Items))
	}
	if payload.Items[0].ID != "1" || payload.Items[1].ID != "2" {
		t.Fatalf("item order not preserved: %+v", payload.Items)
	}
	if payload.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got: %d", payload.Items[0].Quantity)
	}
	if payload.Items[0].Price.String() != "4.99" {
		t.Fatalf("expected price 4.99, got: %s", payload.Items[0].Price.String())
	}
	if payload.SharedAt == 0 {
		t.Fatal("sharedAt should be set")
	}
}

func TestEncodeDecodeUnicodeNames(t *testing.T) {
	items := []CartItem{
		{ID: "1", Name: "焦糖拿铁", Price: mustMoney(t, "28.00"), Quantity: 1},
		{ID: "2", Name: "カフェモカ", Price: mustMoney(t, "5.20"), Quantity: 3},
	}

	token, err := Encode(items)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	payload := Decode(token)
	if payload == nil {
		t.Fatal("decode returned nil")
	}
	if payload.Items[0].Name != "焦糖拿铁" {
		t.Fatalf("unicode name not round-tripped: %q", payload.Items[0].Name)
	}
	if payload.Items[1].Name != "カフェモカ" {
		t.Fatalf("unicode name not round-tripped: %q", payload.Items[1].Name)
	}
}

func TestEncodeDecodeEmptyCart(t *testing.T) {
	token, err := Encode(nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	payload := Decode(token)
	if payload == nil {
		t.Fatal("empty cart should decode as a valid payload")
	}
	if len(payload.Items) != 0 {
		t.Fatalf("expected 0 items, got: %d", len(payload.Items))
	}
}

func TestEncodeTokenIsURLSafe(t *testing.T) {
	items := []CartItem{
		{ID: "1", Name: "Latte + extra shot / oat milk?", Price: mustMoney(t, "6.10"), Quantity: 1},
	}
	token, err := Encode(items)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	for _, r := range token {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			t.Fatalf("token contains non URL-safe character: %q", r)
		}
	}
}

func TestDecodeRejectsTruncatedToken(t *testing.T) {
	items := []CartItem{{ID: "1", Name: "Latte", Price: mustMoney(t, "4.99"), Quantity: 1}}
	token, err := Encode(items)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if payload := Decode(token[:len(token)/2]); payload != nil {
		t.Fatalf("truncated token should decode to nil, got: %+v", payload)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "!!!not-base64!!!", "%%%%"} {
		if payload := Decode(token); payload != nil {
			t.Fatalf("token %q should decode to nil, got: %+v", token, payload)
		}
	}
}

func TestDecodeRejectsMissingItems(t *testing.T) {
	token := base64.RawURLEncoding.EncodeToString([]byte(`{"sharedAt": 123}`))
	if payload := Decode(token); payload != nil {
		t.Fatalf("payload without items should decode to nil, got: %+v", payload)
	}
}

func TestDecodeRejectsItemsNotArray(t *testing.T) {
	for _, body := range []string{
		`{"items": "nope", "sharedAt": 1}`,
		`{"items": {"id": "1"}, "sharedAt": 1}`,
		`{"items": null, "sharedAt": 1}`,
		`{"items": 42, "sharedAt": 1}`,
	} {
		token := base64.RawURLEncoding.EncodeToString([]byte(body))
		if payload := Decode(token); payload != nil {
			t.Fatalf("body %q should decode to nil, got: %+v", body, payload)
		}
	}
}

func TestDeriveLocalCode(t *testing.T) {
	items := []CartItem{{ID: "1", Name: "Latte", Price: mustMoney(t, "4.99"), Quantity: 1}}
	token, err := Encode(items)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	code := DeriveLocalCode(token)
	if len(code) != 12 {
		t.Fatalf("expected 12-char local code, got: %q", code)
	}
	if code != DeriveLocalCode(token) {
		t.Fatal("local code derivation should be deterministic")
	}

	short := DeriveLocalCode("abc")
	if short != "ABC" {
		t.Fatalf("expected ABC for short token, got: %q", short)
	}
}

func TestLocalStoreKey(t *testing.T) {
	if key := LocalStoreKey("ab12cd34"); key != "cart_share_AB12CD34" {
		t.Fatalf("unexpected local store key: %q", key)
	}
}
