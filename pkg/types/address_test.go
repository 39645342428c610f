package types

import (
	"encoding/json"
	"errors"
	"testing"
)

// CIP-19 test vectors.
const (
	cipPaymentKeyHash = "9493315cd92eb5d8c4304e67b7e16ae36d61d34502694657811a2c8e"
	cipStakeKeyHash   = "337b62cfff6403a06a3acbc34f8c46003c69fe79a3628cefa9c47251"
	cipScriptHash     = "c37b1b5dc0669f1d3c61a6fddb2e8fde96be87b881c60bce8e8d542f"
)

func mustKeyHash(t *testing.T, s string) KeyHash {
	t.Helper()
	h, err := HexToKeyHash(s)
	if err != nil {
		t.Fatalf("HexToKeyHash(%q) error: %v", s, err)
	}
	return h
}

func TestAddress_CIP19Vectors(t *testing.T) {
	pay := mustKeyHash(t, cipPaymentKeyHash)
	stake := mustKeyHash(t, cipStakeKeyHash)
	script := mustKeyHash(t, cipScriptHash)

	tests := []struct {
		name string
		addr Address
		want string
	}{
		{"base mainnet", NewBaseAddress(Mainnet, pay, stake),
			"addr1qx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgse35a3x"},
		{"base testnet", NewBaseAddress(Preprod, pay, stake),
			"addr_test1qz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgs68faae"},
		{"script payment base", Address{Kind: BaseAddress, NetworkID: MainnetID, Payment: ScriptCred(script), Stake: KeyCred(stake)},
			"addr1z8phkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gten0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgs9yc0hh"},
		{"script stake base", Address{Kind: BaseAddress, NetworkID: MainnetID, Payment: KeyCred(pay), Stake: ScriptCred(script)},
			"addr1yx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzerkr0vd4msrxnuwnccdxlhdjar77j6lg0wypcc9uar5d2shs2z78ve"},
		{"script enterprise", Address{Kind: EnterpriseAddress, NetworkID: MainnetID, Payment: ScriptCred(script)},
			"addr1w8phkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gtcyjy7wx"},
		{"reward mainnet", NewRewardAddress(Mainnet, stake),
			"stake1uyehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gh6ffgw"},
		{"reward testnet", NewRewardAddress(Preview, stake),
			"stake_test1uqehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gssrtvn"},
		{"script reward", Address{Kind: RewardAddress, NetworkID: MainnetID, Stake: ScriptCred(script)},
			"stake178phkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gtcccycj5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.addr.Encode()
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %s, want %s", got, tt.want)
			}

			parsed, err := ParseAddress(tt.want)
			if err != nil {
				t.Fatalf("ParseAddress() error: %v", err)
			}
			if parsed.Kind != tt.addr.Kind || parsed.NetworkID != tt.addr.NetworkID {
				t.Errorf("parsed kind/network = %s/%d, want %s/%d",
					parsed.Kind, parsed.NetworkID, tt.addr.Kind, tt.addr.NetworkID)
			}
			if (parsed.Payment == nil) != (tt.addr.Payment == nil) ||
				(parsed.Payment != nil && *parsed.Payment != *tt.addr.Payment) {
				t.Errorf("payment credential mismatch")
			}
			if (parsed.Stake == nil) != (tt.addr.Stake == nil) ||
				(parsed.Stake != nil && *parsed.Stake != *tt.addr.Stake) {
				t.Errorf("stake credential mismatch")
			}
		})
	}
}

func TestEncodeAddress(t *testing.T) {
	pay := mustKeyHash(t, cipPaymentKeyHash)
	stake := mustKeyHash(t, cipStakeKeyHash)

	withStake, err := EncodeAddress(pay, &stake, Mainnet)
	if err != nil {
		t.Fatalf("EncodeAddress() error: %v", err)
	}
	a, err := ParseAddress(withStake)
	if err != nil {
		t.Fatalf("ParseAddress() error: %v", err)
	}
	if a.Kind != BaseAddress {
		t.Errorf("kind = %s, want base", a.Kind)
	}

	paymentOnly, err := EncodeAddress(pay, nil, Preprod)
	if err != nil {
		t.Fatalf("EncodeAddress() error: %v", err)
	}
	if paymentOnly != "addr_test1vz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzerspjrlsz" {
		t.Errorf("enterprise address = %s", paymentOnly)
	}
	a, err = ParseAddress(paymentOnly)
	if err != nil {
		t.Fatalf("ParseAddress() error: %v", err)
	}
	if a.Kind != EnterpriseAddress || a.Stake != nil {
		t.Errorf("expected enterprise address without stake, got %+v", a)
	}
	if a.BelongsTo(Mainnet) || !a.BelongsTo(Preview) {
		t.Error("test network address should belong to every test network only")
	}
}

func TestEncodeAddress_NetworksDiffer(t *testing.T) {
	pay := mustKeyHash(t, cipPaymentKeyHash)
	stake := mustKeyHash(t, cipStakeKeyHash)

	main, _ := EncodeAddress(pay, &stake, Mainnet)
	test, _ := EncodeAddress(pay, &stake, Preprod)
	if main == test {
		t.Fatal("mainnet and testnet encodings must differ")
	}

	for addr, want := range map[string]byte{main: MainnetID, test: TestnetID} {
		a, err := ParseAddress(addr)
		if err != nil {
			t.Fatalf("ParseAddress() error: %v", err)
		}
		if a.NetworkID != want {
			t.Errorf("NetworkID = %d, want %d", a.NetworkID, want)
		}
	}
}

func TestAddress_RewardAddress(t *testing.T) {
	pay := mustKeyHash(t, cipPaymentKeyHash)
	stake := mustKeyHash(t, cipStakeKeyHash)

	reward, err := NewBaseAddress(Mainnet, pay, stake).RewardAddress()
	if err != nil {
		t.Fatalf("RewardAddress() error: %v", err)
	}
	if got := reward.String(); got != "stake1uyehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gh6ffgw" {
		t.Errorf("RewardAddress() = %s", got)
	}

	_, err = NewEnterpriseAddress(Mainnet, pay).RewardAddress()
	if !errors.Is(err, ErrNoStakeKey) {
		t.Errorf("enterprise RewardAddress() error = %v, want ErrNoStakeKey", err)
	}

	scriptStake := Address{Kind: BaseAddress, NetworkID: MainnetID, Payment: KeyCred(pay), Stake: ScriptCred(stake)}
	if _, err := scriptStake.RewardAddress(); !errors.Is(err, ErrNoStakeKey) {
		t.Errorf("script stake RewardAddress() error = %v, want ErrNoStakeKey", err)
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	valid := "addr1qx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgse35a3x"

	// A mainnet payload under a test prefix must be rejected.
	_, raw, err := Bech32Decode(valid)
	if err != nil {
		t.Fatalf("Bech32Decode() error: %v", err)
	}
	wrongPrefix, err := Bech32Encode("addr_test", raw)
	if err != nil {
		t.Fatalf("Bech32Encode() error: %v", err)
	}
	truncated, err := Bech32Encode("addr", raw[:40])
	if err != nil {
		t.Fatalf("Bech32Encode() error: %v", err)
	}
	byron, err := Bech32Encode("addr", append([]byte{0x81}, raw[1:]...))
	if err != nil {
		t.Fatalf("Bech32Encode() error: %v", err)
	}

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"garbage", "not-an-address"},
		{"bad checksum", valid[:len(valid)-1] + "q"},
		{"prefix mismatch", wrongPrefix},
		{"truncated base", truncated},
		{"unsupported header", byron},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAddress(tt.in); !errors.Is(err, ErrInvalidAddress) {
				t.Errorf("ParseAddress(%q) error = %v, want ErrInvalidAddress", tt.in, err)
			}
		})
	}
}

func TestAddress_JSON(t *testing.T) {
	pay := mustKeyHash(t, cipPaymentKeyHash)
	stake := mustKeyHash(t, cipStakeKeyHash)
	addr := NewBaseAddress(Mainnet, pay, stake)

	data, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded Address
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if decoded.String() != addr.String() {
		t.Errorf("JSON roundtrip: got %s, want %s", decoded, addr)
	}
}

func TestIsRewardAddress(t *testing.T) {
	if !IsRewardAddress("stake1uyehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gh6ffgw") {
		t.Error("mainnet reward address not recognised")
	}
	if !IsRewardAddress("stake_test1uqehkck0lajq8gr28t9uxnuvgcqrc6070x3k9r8048z8y5gssrtvn") {
		t.Error("test reward address not recognised")
	}
	if IsRewardAddress("addr1w8phkx6acpnf78fuvxn0mkew3l0fd058hzquvz7w36x4gtcyjy7wx") {
		t.Error("payment address reported as reward address")
	}
}
