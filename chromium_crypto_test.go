package jarvest

import (
	"bytes"
	"testing"
)

func TestChromiumDecryptAESCBC_RoundTrip(t *testing.T) {
	key := chromiumDeriveAESCBCKey("pw", chromiumAESCBCIterationsMacOS)
	enc := encryptAESCBCForTest(t, "v10", key, []byte("hello"))

	plain, err := chromiumDecryptAESCBC(enc, key, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "hello" {
		t.Fatalf("got %q", plain)
	}
}

func TestChromiumDecryptAESCBC_StripsHashPrefixOnV24Meta(t *testing.T) {
	key := chromiumDeriveAESCBCKey("pw", chromiumAESCBCIterationsLinux)
	payload := append(make([]byte, 32), []byte("value")...)
	enc := encryptAESCBCForTest(t, "v10", key, payload)

	plain, err := chromiumDecryptAESCBC(enc, key, 24, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "value" {
		t.Fatalf("got %q", plain)
	}
}

func TestChromiumDecryptAESCBC_UnknownPrefix(t *testing.T) {
	key := chromiumDeriveAESCBCKey("pw", chromiumAESCBCIterationsLinux)

	if _, err := chromiumDecryptAESCBC([]byte("plain-value"), key, 0, false); err == nil {
		t.Fatal("unknown prefix must fail when plaintext passthrough is off")
	}

	plain, err := chromiumDecryptAESCBC([]byte("plain-value"), key, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "plain-value" {
		t.Fatalf("got %q", plain)
	}
}

func TestChromiumDecryptAES256GCM_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	nonce := bytes.Repeat([]byte{1}, 12)
	enc := encryptAESGCMForTest(t, "v10", key, nonce, []byte("secret"))

	plain, err := chromiumDecryptAES256GCM(enc, key, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "secret" {
		t.Fatalf("got %q", plain)
	}

	enc[len(enc)-1] ^= 0xff
	if _, err := chromiumDecryptAES256GCM(enc, key, 0); err == nil {
		t.Fatal("tampered ciphertext must fail")
	}
}

func TestRemovePKCS7Padding(t *testing.T) {
	if _, err := removePKCS7Padding([]byte{1, 2, 3, 0}); err == nil {
		t.Fatal("zero padding length must fail")
	}
	if _, err := removePKCS7Padding([]byte{1, 2, 2, 3}); err == nil {
		t.Fatal("inconsistent padding bytes must fail")
	}
	out, err := removePKCS7Padding([]byte{'a', 'b', 2, 2})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "ab" {
		t.Fatalf("got %q", out)
	}
}

func TestHasChromiumVersionPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"v10abc", true},
		{"v99", true},
		{"v1", false},
		{"x10", false},
		{"vab", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := hasChromiumVersionPrefix([]byte(tc.in)); got != tc.want {
			t.Errorf("hasChromiumVersionPrefix(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestChromiumDecodeCookieValue(t *testing.T) {
	got, ok := chromiumDecodeCookieValue([]byte{0x01, 0x02, 'h', 'i'})
	if !ok || got != "hi" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if _, ok := chromiumDecodeCookieValue([]byte{0xff, 0xfe}); ok {
		t.Fatal("invalid utf8 must not decode")
	}
}
