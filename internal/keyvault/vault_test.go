package keyvault

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewRejectsBadKeys(t *testing.T) {
	for _, k := range []string{"", "zz", "0001", testKey + "00"} {
		if _, err := New(k); err == nil {
			t.Errorf("New(%q) should fail", k)
		}
	}
	if _, err := New("0x" + testKey); err != nil {
		t.Errorf("0x prefix should be accepted: %v", err)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	v, err := New(testKey)
	if err != nil {
		t.Fatal(err)
	}
	plain := "0x63cdccc9866523d947216aac758200d1bf09e90d82975c2f44007ed319073d00"

	a, err := v.Encrypt(plain)
	if err != nil {
		t.Fatal(err)
	}
	b, err := v.Encrypt(plain)
	if err != nil {
		t.Fatal(err)
	}
	if a.IV == b.IV || a.Content == b.Content {
		t.Error("each encryption should use a fresh iv")
	}
	if len(a.IV) != 32 || len(a.Content) != 2*len(plain) {
		t.Errorf("unexpected encoded sizes: iv=%d content=%d", len(a.IV), len(a.Content))
	}

	got, err := v.Decrypt(a)
	if err != nil {
		t.Fatal(err)
	}
	if got != plain {
		t.Errorf("Decrypt = %q, want %q", got, plain)
	}
}

func TestDecryptRejectsMalformed(t *testing.T) {
	v, _ := New(testKey)
	sealed, _ := v.Encrypt("x")
	sealed.IV = "abcd"
	if _, err := v.Decrypt(sealed); err == nil {
		t.Error("short iv should fail")
	}
	sealed.IV = strings.Repeat("0", 32)
	sealed.Content = "not-hex"
	if _, err := v.Decrypt(sealed); err == nil {
		t.Error("bad content should fail")
	}
}

func TestNewWalletSignerMatchesAddress(t *testing.T) {
	v, _ := New(testKey)
	addr, sealed, err := v.NewWallet()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		t.Fatalf("address = %q", addr)
	}
	key, err := v.Signer(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if got := crypto.PubkeyToAddress(key.PublicKey).Hex(); got != addr {
		t.Errorf("signer address = %s, want %s", got, addr)
	}
}
