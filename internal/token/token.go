// Package token provides the token model and exact conversions between
// human-readable decimal amounts and integer base-unit amounts.
// Core arithmetic works on big.Int base units; decimal.Decimal is used for
// prices and boundaries (config, display), never float64.
package token

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Info describes an SPL token. The mint is the identity; symbol is display
// metadata. Decimals are fixed for the token's lifetime.
type Info struct {
	Mint     solana.PublicKey
	Symbol   string
	Decimals uint8
}

// NewInfo creates a token Info from a base58 mint address.
func NewInfo(mint string, symbol string, decimals uint8) (Info, error) {
	pk, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return Info{}, fmt.Errorf("token: invalid mint %q: %w", mint, err)
	}
	if decimals > maxDecimals {
		return Info{}, ErrInvalidDecimals
	}

	return Info{
		Mint:     pk,
		Symbol:   symbol,
		Decimals: decimals,
	}, nil
}

// MustInfo is NewInfo that panics on error. For tests and static tables.
func MustInfo(mint string, symbol string, decimals uint8) Info {
	info, err := NewInfo(mint, symbol, decimals)
	if err != nil {
		panic(err)
	}
	return info
}

// Address returns the base58 mint address.
func (i Info) Address() string {
	return i.Mint.String()
}

// Equals compares two tokens by mint.
func (i Info) Equals(other Info) bool {
	return i.Mint == other.Mint
}

// String returns the symbol, or a shortened mint when no symbol is set.
func (i Info) String() string {
	if i.Symbol != "" {
		return i.Symbol
	}
	s := i.Mint.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
