// Package orderlog decodes the daily per-instrument order-log archives: a
// midnight depth snapshot followed by every order status change of the day,
// shipped as one block-compressed binary file.
package orderlog

import (
	"fmt"
	"time"

	"github.com/alphaquick/hldata/pkg/fixedpoint"
	"github.com/alphaquick/hldata/pkg/hexid"
)

// Side marks which half of the book a level or order belongs to.
type Side uint8

const (
	// Bid is the buy side.
	Bid Side = 0
	// Ask is the sell side.
	Ask Side = 1
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "bid"
	case Ask:
		return "ask"
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// OrderType represents the type of order.
type OrderType uint8

const (
	// OrderTypeLimit represents a plain limit order.
	OrderTypeLimit OrderType = 0
	// OrderTypeTrigger represents an order armed by a trigger condition.
	OrderTypeTrigger OrderType = 1
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "limit"
	case OrderTypeTrigger:
		return "trigger"
	}
	return fmt.Sprintf("order_type(%d)", uint8(t))
}

// TimeInForce governs how long an order stays active.
type TimeInForce uint8

const (
	// GTC keeps the order resting until canceled.
	GTC TimeInForce = 0
	// IOC fills what it can immediately and cancels the rest.
	IOC TimeInForce = 1
	// ALO rests the order only if it does not cross (add-liquidity-only).
	ALO TimeInForce = 2
)

func (t TimeInForce) String() string {
	switch t {
	case GTC:
		return "gtc"
	case IOC:
		return "ioc"
	case ALO:
		return "alo"
	}
	return fmt.Sprintf("tif(%d)", uint8(t))
}

// TriggerCondition describes what arms a trigger order.
type TriggerCondition uint8

const (
	// TriggerNone marks a non-trigger order.
	TriggerNone TriggerCondition = 0
	// TriggerTakeProfit fires when price moves favourably through the trigger price.
	TriggerTakeProfit TriggerCondition = 1
	// TriggerStopLoss fires when price moves adversely through the trigger price.
	TriggerStopLoss TriggerCondition = 2
)

func (c TriggerCondition) String() string {
	switch c {
	case TriggerNone:
		return "none"
	case TriggerTakeProfit:
		return "take_profit"
	case TriggerStopLoss:
		return "stop_loss"
	}
	return fmt.Sprintf("trigger(%d)", uint8(c))
}

// OrderStatus is the resulting status of an order after a status change.
type OrderStatus uint8

const (
	// StatusOpen means the order is resting in the book.
	StatusOpen OrderStatus = 0
	// StatusFilled means the order was fully filled.
	StatusFilled OrderStatus = 1
	// StatusCanceled means the order was canceled by its owner.
	StatusCanceled OrderStatus = 2
	// StatusRejected means the order never entered the book.
	StatusRejected OrderStatus = 3
	// StatusTriggered means a trigger order was armed into the book.
	StatusTriggered OrderStatus = 4
	// StatusMarginCanceled means the order was canceled by a margin check.
	StatusMarginCanceled OrderStatus = 5
)

func (s OrderStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusFilled:
		return "filled"
	case StatusCanceled:
		return "canceled"
	case StatusRejected:
		return "rejected"
	case StatusTriggered:
		return "triggered"
	case StatusMarginCanceled:
		return "margin_canceled"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// FileHeader is the parsed order-log file header. It is immutable once
// parsed and owned by the reader for the lifetime of the session.
type FileHeader struct {
	Version      uint16
	InstrumentID uint32
	DepthLevels  uint32
}

// Message is the discriminated union of the three record kinds an order-log
// stream yields: DepthLevel, OrderUpdate and EndOfSnapshot.
type Message interface {
	isMessage()
}

// DepthLevel is one price level of one side of the midnight book.
type DepthLevel struct {
	Price  int64
	Size   int64
	Orders uint64
	Side   Side
}

func (DepthLevel) isMessage() {}

// PriceDecimal returns the level price as a decimal string.
func (l DepthLevel) PriceDecimal() string {
	return fixedpoint.ToDecimal(l.Price)
}

// SizeDecimal returns the aggregate level size as a decimal string.
func (l DepthLevel) SizeDecimal() string {
	return fixedpoint.ToDecimal(l.Size)
}

// EndOfSnapshot is the sentinel between the depth-snapshot section and the
// order-update stream. Exactly one occurs per file.
type EndOfSnapshot struct {
	// Levels echoes the number of depth levels written before the marker.
	Levels uint32
}

func (EndOfSnapshot) isMessage() {}

// OrderUpdate is one order status change.
type OrderUpdate struct {
	Wallet       hexid.Wallet
	OID          uint64
	Cloid        hexid.Cloid
	Price        int64
	Size         int64
	OrigSize     int64
	TriggerPrice int64
	Filled       int64
	Side         Side
	Type         OrderType
	TIF          TimeInForce
	Trigger      TriggerCondition
	Status       OrderStatus
	Block        uint64
	TimeMs       uint64
}

func (OrderUpdate) isMessage() {}

// PriceDecimal returns the order price as a decimal string.
func (u OrderUpdate) PriceDecimal() string {
	return fixedpoint.ToDecimal(u.Price)
}

// SizeDecimal returns the remaining order size as a decimal string.
func (u OrderUpdate) SizeDecimal() string {
	return fixedpoint.ToDecimal(u.Size)
}

// Timestamp returns the update time as a time.Time in UTC.
func (u OrderUpdate) Timestamp() time.Time {
	return time.UnixMilli(int64(u.TimeMs)).UTC()
}

// DepthSnapshot is the midnight book reconstructed from the leading snapshot
// section, partitioned by side. Input order is preserved: bids are written
// best-first (descending price), asks best-first (ascending price).
type DepthSnapshot struct {
	Bids []DepthLevel
	Asks []DepthLevel
}
