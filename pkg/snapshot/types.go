// Package snapshot decodes the multi-snapshot archives holding full L4
// order-book states captured at several block heights, plus the synthetic
// midnight state at block height zero.
package snapshot

import (
	"time"

	"github.com/alphaquick/hldata/pkg/fixedpoint"
	"github.com/alphaquick/hldata/pkg/hexid"
	"github.com/alphaquick/hldata/pkg/orderlog"
)

// Header is the parsed multi-snapshot file header.
type Header struct {
	Version      uint16
	InstrumentID uint32
	Count        uint32
}

// IndexEntry locates one embedded snapshot body in the decompressed payload.
type IndexEntry struct {
	BlockHeight uint64
	TimeMs      uint64
	Offset      uint64
	Orders      uint32
	// Midnight marks the synthetic start-of-day snapshot at block height zero,
	// as opposed to a regularly captured one.
	Midnight bool
}

// Timestamp returns the capture time as a time.Time in UTC.
func (e IndexEntry) Timestamp() time.Time {
	return time.UnixMilli(int64(e.TimeMs)).UTC()
}

// Order is one open order resting in the book at the moment of a snapshot.
type Order struct {
	Wallet hexid.Wallet
	OID    uint64
	Price  int64
	Size   int64
	Side   orderlog.Side
}

// PriceDecimal returns the order price as a decimal string.
func (o Order) PriceDecimal() string {
	return fixedpoint.ToDecimal(o.Price)
}

// SizeDecimal returns the resting order size as a decimal string.
func (o Order) SizeDecimal() string {
	return fixedpoint.ToDecimal(o.Size)
}

// Snapshot pairs an index entry with its decoded orders, as returned by
// ReadAll.
type Snapshot struct {
	Entry  IndexEntry
	Orders []Order
}
