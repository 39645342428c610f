package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ScriptType identifies the language of an on-chain script.
type ScriptType uint8

const (
	ScriptTypeTimelock ScriptType = iota // Native (multi-sig / time-lock) script
	ScriptTypePlutusV1
	ScriptTypePlutusV2
	ScriptTypePlutusV3

	// ScriptTypeUnknown is a language this package has no name for yet,
	// such as a Plutus version newer than V3. It is treated as runnable.
	ScriptTypeUnknown ScriptType = 0xfe
)

// String returns the canonical name used by the ledger tooling.
func (st ScriptType) String() string {
	switch st {
	case ScriptTypeTimelock:
		return "Native"
	case ScriptTypePlutusV1:
		return "PlutusV1"
	case ScriptTypePlutusV2:
		return "PlutusV2"
	case ScriptTypePlutusV3:
		return "PlutusV3"
	case ScriptTypeUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(st))
	}
}

// IsRunnable reports whether scripts of this type can be used as reference
// scripts by later transactions. Native scripts are informational only.
func (st ScriptType) IsRunnable() bool {
	return st != ScriptTypeTimelock
}

// MarshalJSON encodes the script type by name.
func (st ScriptType) MarshalJSON() ([]byte, error) {
	return json.Marshal(st.String())
}

// ParseScriptType maps the indexer's script kind ("timelock", "plutusV1",
// "plutusV2", "plutusV3") to a ScriptType. Any other kind yields
// ScriptTypeUnknown together with an error.
func ParseScriptType(kind string) (ScriptType, error) {
	switch kind {
	case "timelock":
		return ScriptTypeTimelock, nil
	case "plutusV1":
		return ScriptTypePlutusV1, nil
	case "plutusV2":
		return ScriptTypePlutusV2, nil
	case "plutusV3":
		return ScriptTypePlutusV3, nil
	default:
		return ScriptTypeUnknown, fmt.Errorf("unknown script type %q", kind)
	}
}

// Script is a reference script attached to an output. Kind keeps the
// indexer's name for a ScriptTypeUnknown script.
type Script struct {
	Type ScriptType `json:"type"`
	Kind string     `json:"kind,omitempty"`
	CBOR []byte     `json:"-"`
}

// scriptJSON is the JSON representation of a Script.
type scriptJSON struct {
	Type ScriptType `json:"type"`
	Kind string     `json:"kind,omitempty"`
	CBOR string     `json:"script"`
}

// MarshalJSON encodes the script with hex-encoded CBOR.
func (s Script) MarshalJSON() ([]byte, error) {
	return json.Marshal(scriptJSON{
		Type: s.Type,
		Kind: s.Kind,
		CBOR: hex.EncodeToString(s.CBOR),
	})
}
