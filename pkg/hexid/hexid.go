// Package hexid provides the fixed-width hex identifiers used by the archive
// formats: 20-byte wallet addresses and 16-byte client order ids.
package hexid

import "encoding/hex"

// WalletSize is the byte width of a wallet address.
const WalletSize = 20

// CloidSize is the byte width of a client order id.
const CloidSize = 16

// Wallet is a 20-byte participant address.
type Wallet [WalletSize]byte

// Cloid is a 16-byte client-assigned order id. The zero value means "no
// client order id"; the formats write all zeroes when the field is absent.
type Cloid [CloidSize]byte

// ParseWallet parses a 0x-prefixed 40-hex-digit wallet address. It returns
// false on wrong length or non-hex characters.
func ParseWallet(s string) (Wallet, bool) {
	var w Wallet
	if len(s) != 2+2*WalletSize || s[0] != '0' || s[1] != 'x' {
		return Wallet{}, false
	}
	if _, err := hex.Decode(w[:], []byte(s[2:])); err != nil {
		return Wallet{}, false
	}
	return w, true
}

// String formats the wallet as a 0x-prefixed lowercase hex string.
func (w Wallet) String() string {
	return "0x" + hex.EncodeToString(w[:])
}

// ParseCloid parses a 0x-prefixed 32-hex-digit client order id. Malformed
// input yields the zero Cloid: client order ids are optional in the formats,
// and an unparseable one is treated the same as an absent one.
func ParseCloid(s string) Cloid {
	var c Cloid
	if len(s) != 2+2*CloidSize || s[0] != '0' || s[1] != 'x' {
		return Cloid{}
	}
	if _, err := hex.Decode(c[:], []byte(s[2:])); err != nil {
		return Cloid{}
	}
	return c
}

// String formats the cloid as a 0x-prefixed lowercase hex string.
func (c Cloid) String() string {
	return "0x" + hex.EncodeToString(c[:])
}

// IsZero reports whether the cloid is absent (all zero bytes).
func (c Cloid) IsZero() bool {
	return c == Cloid{}
}
