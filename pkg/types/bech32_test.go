package types

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBech32_Roundtrip(t *testing.T) {
	data := []byte{0x8f, 0x3a, 0x44, 0xb8, 0x05, 0x6c, 0xaf, 0xec, 0x36, 0x8d,
		0xea, 0x0c, 0xbe, 0x0a, 0xd1, 0xd9, 0xbc, 0x3f, 0x43, 0x05}

	encoded, err := Bech32Encode("addr", data)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}

	hrp, decoded, err := Bech32Decode(encoded)
	if err != nil {
		t.Fatalf("Bech32Decode: %v", err)
	}

	if hrp != "addr" {
		t.Errorf("HRP = %q, want %q", hrp, "addr")
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("decoded = %x, want %x", decoded, data)
	}
}

func TestBech32_BIP173Vectors(t *testing.T) {
	valid := []string{
		"A12UEL5L",
		"a12uel5l",
		"abcdef1qpzry9x8gf2tvdw0s3jn54khce6mua7lmqqqxw",
		"split1checkupstagehandshakeupstreamerranterredcaperred2y9e3w",
	}
	for _, s := range valid {
		if _, _, err := Bech32Decode(s); err != nil {
			t.Errorf("Bech32Decode(%q) error: %v", s, err)
		}
	}
}

func TestBech32_LongPayload(t *testing.T) {
	// Extended keys and base addresses exceed the 90 character BIP-173 cap.
	data := bytes.Repeat([]byte{0x5a}, 96)

	encoded, err := Bech32Encode("ed25519e_sk", data)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}
	if len(encoded) <= 90 {
		t.Fatalf("encoded length = %d, want > 90", len(encoded))
	}

	hrp, decoded, err := Bech32Decode(encoded)
	if err != nil {
		t.Fatalf("Bech32Decode: %v", err)
	}
	if hrp != "ed25519e_sk" {
		t.Errorf("HRP = %q", hrp)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("decoded data mismatch")
	}
}

func TestBech32Decode_InvalidChecksum(t *testing.T) {
	data := make([]byte, 20)
	encoded, err := Bech32Encode("stake", data)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}

	// Corrupt last character.
	corrupted := encoded[:len(encoded)-1] + "q"
	if corrupted == encoded {
		corrupted = encoded[:len(encoded)-1] + "p"
	}

	_, _, err = Bech32Decode(corrupted)
	if !errors.Is(err, ErrBech32) {
		t.Errorf("expected ErrBech32 for invalid checksum, got %v", err)
	}
}

func TestBech32Decode_InvalidChars(t *testing.T) {
	_, _, err := Bech32Decode("addr1b!!invalid")
	if err == nil {
		t.Error("expected error for invalid characters")
	}
}

func TestBech32Decode_MixedCase(t *testing.T) {
	data := make([]byte, 20)
	encoded, err := Bech32Encode("addr", data)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}

	// Mix case: uppercase first data char.
	runes := []rune(encoded)
	for i := 5; i < len(runes); i++ {
		if runes[i] >= 'a' && runes[i] <= 'z' {
			runes[i] = runes[i] - 'a' + 'A'
			break
		}
	}
	mixed := string(runes)
	if mixed == encoded {
		t.Skip("could not create mixed-case variant")
	}

	_, _, err = Bech32Decode(mixed)
	if err == nil {
		t.Error("expected error for mixed case")
	}
}

func TestBech32Decode_Uppercase(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	encoded, err := Bech32Encode("addr_test", data)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}

	hrp, decoded, err := Bech32Decode(strings.ToUpper(encoded))
	if err != nil {
		t.Fatalf("Bech32Decode upper: %v", err)
	}
	if hrp != "addr_test" {
		t.Errorf("HRP = %q, want lowercase", hrp)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("decoded data mismatch")
	}
}

func TestBech32Encode_BadHRP(t *testing.T) {
	for _, hrp := range []string{"", "Addr", "a b"} {
		if _, err := Bech32Encode(hrp, []byte{0x01}); err == nil {
			t.Errorf("Bech32Encode(%q): expected error", hrp)
		}
	}
}

func TestBech32Decode_Empty(t *testing.T) {
	_, _, err := Bech32Decode("")
	if err == nil {
		t.Error("expected error for empty string")
	}
}

func TestBech32_DifferentHRPs(t *testing.T) {
	data := []byte{0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67, 0x89, 0x00, 0x11,
		0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb}

	enc1, err := Bech32Encode("addr", data)
	if err != nil {
		t.Fatalf("Bech32Encode addr: %v", err)
	}
	enc2, err := Bech32Encode("addr_test", data)
	if err != nil {
		t.Fatalf("Bech32Encode addr_test: %v", err)
	}

	if enc1 == enc2 {
		t.Error("different HRPs should produce different encodings")
	}

	// Both should decode to the same data.
	hrp1, dec1, err := Bech32Decode(enc1)
	if err != nil {
		t.Fatalf("decode addr: %v", err)
	}
	hrp2, dec2, err := Bech32Decode(enc2)
	if err != nil {
		t.Fatalf("decode addr_test: %v", err)
	}

	if hrp1 != "addr" || hrp2 != "addr_test" {
		t.Errorf("hrps: got %q and %q", hrp1, hrp2)
	}
	if !bytes.Equal(dec1, data) || !bytes.Equal(dec2, data) {
		t.Error("decoded data mismatch")
	}
}
