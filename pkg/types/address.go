package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// CredentialKind tells whether a credential is a key hash or a script hash.
type CredentialKind uint8

const (
	KeyCredential CredentialKind = iota
	ScriptCredential
)

func (k CredentialKind) String() string {
	if k == ScriptCredential {
		return "script"
	}
	return "key"
}

// Credential is a hash embedded in an address that selects who may
// authorize spending or staking.
type Credential struct {
	Kind CredentialKind `json:"kind"`
	Hash KeyHash        `json:"hash"`
}

// KeyCred returns a key-hash credential.
func KeyCred(h KeyHash) *Credential {
	return &Credential{Kind: KeyCredential, Hash: h}
}

// ScriptCred returns a script-hash credential.
func ScriptCred(h KeyHash) *Credential {
	return &Credential{Kind: ScriptCredential, Hash: h}
}

// AddressKind is the shape of a Shelley-era address.
type AddressKind uint8

const (
	// BaseAddress carries a payment and a stake credential.
	BaseAddress AddressKind = iota
	// PointerAddress carries a payment credential and a certificate pointer.
	PointerAddress
	// EnterpriseAddress carries a payment credential only.
	EnterpriseAddress
	// RewardAddress carries a stake credential only.
	RewardAddress
)

func (k AddressKind) String() string {
	switch k {
	case BaseAddress:
		return "base"
	case PointerAddress:
		return "pointer"
	case EnterpriseAddress:
		return "enterprise"
	case RewardAddress:
		return "reward"
	default:
		return "unknown"
	}
}

// Address header type nibbles (CIP-19).
const (
	headerBase         = 0x0
	headerPointer      = 0x4
	headerEnterprise   = 0x6
	headerReward       = 0xe
	headerPaymentBit   = 0x1
	headerStakeBit     = 0x2
	headerRewardScript = 0x1
)

// Address is a network-tagged, credential-based Shelley address.
type Address struct {
	Kind      AddressKind
	NetworkID byte
	Payment   *Credential
	Stake     *Credential
	// Pointer holds the raw variable-length certificate pointer of a
	// PointerAddress.
	Pointer []byte
}

// NewBaseAddress builds a key/key base address.
func NewBaseAddress(net Network, payment, stake KeyHash) Address {
	return Address{Kind: BaseAddress, NetworkID: net.ID(), Payment: KeyCred(payment), Stake: KeyCred(stake)}
}

// NewEnterpriseAddress builds a payment-only key address.
func NewEnterpriseAddress(net Network, payment KeyHash) Address {
	return Address{Kind: EnterpriseAddress, NetworkID: net.ID(), Payment: KeyCred(payment)}
}

// NewRewardAddress builds a key reward address.
func NewRewardAddress(net Network, stake KeyHash) Address {
	return Address{Kind: RewardAddress, NetworkID: net.ID(), Stake: KeyCred(stake)}
}

// EncodeAddress encodes a payment+stake address when stake is non-nil and a
// payment-only address otherwise.
func EncodeAddress(payment KeyHash, stake *KeyHash, net Network) (string, error) {
	if stake != nil {
		return NewBaseAddress(net, payment, *stake).Encode()
	}
	return NewEnterpriseAddress(net, payment).Encode()
}

// EncodeRewardAddress encodes the reward address of a stake key hash.
func EncodeRewardAddress(stake KeyHash, net Network) (string, error) {
	return NewRewardAddress(net, stake).Encode()
}

// header returns the first byte of the binary address.
func (a Address) header() (byte, error) {
	var typ byte
	switch a.Kind {
	case BaseAddress:
		if a.Payment == nil || a.Stake == nil {
			return 0, fmt.Errorf("%w: base address needs payment and stake credentials", ErrInvalidAddress)
		}
		typ = headerBase
		if a.Payment.Kind == ScriptCredential {
			typ |= headerPaymentBit
		}
		if a.Stake.Kind == ScriptCredential {
			typ |= headerStakeBit
		}
	case PointerAddress, EnterpriseAddress:
		if a.Payment == nil {
			return 0, fmt.Errorf("%w: %s address needs a payment credential", ErrInvalidAddress, a.Kind)
		}
		typ = headerEnterprise
		if a.Kind == PointerAddress {
			typ = headerPointer
		}
		if a.Payment.Kind == ScriptCredential {
			typ |= headerPaymentBit
		}
	case RewardAddress:
		if a.Stake == nil {
			return 0, fmt.Errorf("%w: reward address needs a stake credential", ErrInvalidAddress)
		}
		typ = headerReward
		if a.Stake.Kind == ScriptCredential {
			typ |= headerRewardScript
		}
	default:
		return 0, fmt.Errorf("%w: unknown kind %d", ErrInvalidAddress, a.Kind)
	}
	if a.NetworkID > 0x0f {
		return 0, fmt.Errorf("%w: network id %d out of range", ErrInvalidAddress, a.NetworkID)
	}
	return typ<<4 | a.NetworkID, nil
}

// Bytes returns the binary form: header byte followed by the credentials.
func (a Address) Bytes() ([]byte, error) {
	h, err := a.header()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+2*KeyHashSize+len(a.Pointer))
	out = append(out, h)
	if a.Payment != nil && a.Kind != RewardAddress {
		out = append(out, a.Payment.Hash[:]...)
	}
	switch a.Kind {
	case BaseAddress, RewardAddress:
		out = append(out, a.Stake.Hash[:]...)
	case PointerAddress:
		out = append(out, a.Pointer...)
	}
	return out, nil
}

// HRP returns the bech32 prefix for this address.
func (a Address) HRP() string {
	if a.Kind == RewardAddress {
		return stakeHRP(a.NetworkID)
	}
	return addressHRP(a.NetworkID)
}

// Encode returns the bech32 form of the address.
func (a Address) Encode() (string, error) {
	raw, err := a.Bytes()
	if err != nil {
		return "", err
	}
	return Bech32Encode(a.HRP(), raw)
}

// String returns the bech32-encoded address (e.g. "addr1...").
func (a Address) String() string {
	s, err := a.Encode()
	if err != nil {
		// Fallback to hex if encoding fails (should never happen).
		raw, _ := a.Bytes()
		return a.HRP() + ":" + hex.EncodeToString(raw)
	}
	return s
}

// MarshalJSON encodes the address as a bech32 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a bech32 string into an address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// BelongsTo reports whether the address was encoded for the given network.
func (a Address) BelongsTo(net Network) bool {
	return a.NetworkID == net.ID()
}

// HasScriptPayment reports whether the payment credential is a script.
func (a Address) HasScriptPayment() bool {
	return a.Payment != nil && a.Payment.Kind == ScriptCredential
}

// StakeKeyHash returns the stake key hash when the stake credential is a key.
func (a Address) StakeKeyHash() (KeyHash, bool) {
	if a.Stake == nil || a.Stake.Kind != KeyCredential {
		return KeyHash{}, false
	}
	return a.Stake.Hash, true
}

// RewardAddress returns the reward address sharing this address's stake key.
func (a Address) RewardAddress() (Address, error) {
	h, ok := a.StakeKeyHash()
	if !ok {
		return Address{}, ErrNoStakeKey
	}
	return Address{Kind: RewardAddress, NetworkID: a.NetworkID, Stake: KeyCred(h)}, nil
}

// ParseAddress decodes a bech32 Shelley address. The network id in the header
// must agree with the human-readable prefix.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	hrp, raw, err := Bech32Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	a, err := AddressFromBytes(raw)
	if err != nil {
		return Address{}, err
	}
	if want := a.HRP(); hrp != want {
		return Address{}, fmt.Errorf("%w: prefix %q does not match header (want %q)", ErrInvalidAddress, hrp, want)
	}
	return a, nil
}

// AddressFromBytes decodes the binary form of a Shelley address.
func AddressFromBytes(raw []byte) (Address, error) {
	if len(raw) < 1+KeyHashSize {
		return Address{}, fmt.Errorf("%w: %d bytes is too short", ErrInvalidAddress, len(raw))
	}
	typ := raw[0] >> 4
	a := Address{NetworkID: raw[0] & 0x0f}
	body := raw[1:]

	credAt := func(off int, script bool) *Credential {
		var h KeyHash
		copy(h[:], body[off:off+KeyHashSize])
		if script {
			return ScriptCred(h)
		}
		return KeyCred(h)
	}

	switch {
	case typ <= 0x3:
		if len(body) != 2*KeyHashSize {
			return Address{}, fmt.Errorf("%w: base address must be %d bytes", ErrInvalidAddress, 1+2*KeyHashSize)
		}
		a.Kind = BaseAddress
		a.Payment = credAt(0, typ&headerPaymentBit != 0)
		a.Stake = credAt(KeyHashSize, typ&headerStakeBit != 0)
	case typ == headerPointer || typ == headerPointer|headerPaymentBit:
		a.Kind = PointerAddress
		a.Payment = credAt(0, typ&headerPaymentBit != 0)
		a.Pointer = append([]byte(nil), body[KeyHashSize:]...)
	case typ == headerEnterprise || typ == headerEnterprise|headerPaymentBit:
		if len(body) != KeyHashSize {
			return Address{}, fmt.Errorf("%w: enterprise address must be %d bytes", ErrInvalidAddress, 1+KeyHashSize)
		}
		a.Kind = EnterpriseAddress
		a.Payment = credAt(0, typ&headerPaymentBit != 0)
	case typ == headerReward || typ == headerReward|headerRewardScript:
		if len(body) != KeyHashSize {
			return Address{}, fmt.Errorf("%w: reward address must be %d bytes", ErrInvalidAddress, 1+KeyHashSize)
		}
		a.Kind = RewardAddress
		a.Stake = credAt(0, typ&headerRewardScript != 0)
	default:
		return Address{}, fmt.Errorf("%w: unsupported header type %#x", ErrInvalidAddress, typ)
	}
	return a, nil
}

// IsRewardAddress reports whether s looks like a bech32 reward address.
func IsRewardAddress(s string) bool {
	return strings.HasPrefix(s, "stake1") || strings.HasPrefix(s, "stake_test1")
}
