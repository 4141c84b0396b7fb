package orderlog

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/alphaquick/hldata/pkg/hexid"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

// Test-only encoders mirroring the upstream pipeline's output, used to build
// synthetic archives.

func encodeHeader(buf *bytes.Buffer, version uint16, instrument, levels uint32) {
	binary.Write(buf, binary.LittleEndian, fileMagic)
	binary.Write(buf, binary.LittleEndian, version)
	binary.Write(buf, binary.LittleEndian, uint16(0)) // flags
	binary.Write(buf, binary.LittleEndian, instrument)
	binary.Write(buf, binary.LittleEndian, levels)
}

func encodeDepthLevel(buf *bytes.Buffer, l DepthLevel) {
	binary.Write(buf, binary.LittleEndian, l.Price)
	binary.Write(buf, binary.LittleEndian, l.Size)
	binary.Write(buf, binary.LittleEndian, l.Orders)
	buf.WriteByte(byte(l.Side))
	buf.Write(make([]byte, 7))
}

func encodeEndOfSnapshot(buf *bytes.Buffer, levels uint32) {
	binary.Write(buf, binary.LittleEndian, eosMarker)
	binary.Write(buf, binary.LittleEndian, levels)
	buf.Write(make([]byte, 4))
}

func encodeUpdateV3(buf *bytes.Buffer, u OrderUpdate) {
	buf.Write(u.Wallet[:])
	binary.Write(buf, binary.LittleEndian, u.OID)
	buf.Write(u.Cloid[:])
	binary.Write(buf, binary.LittleEndian, u.Price)
	binary.Write(buf, binary.LittleEndian, u.Size)
	binary.Write(buf, binary.LittleEndian, u.OrigSize)
	binary.Write(buf, binary.LittleEndian, u.TriggerPrice)
	binary.Write(buf, binary.LittleEndian, u.Filled)
	buf.WriteByte(byte(u.Side))
	buf.WriteByte(byte(u.Type))
	buf.WriteByte(byte(u.TIF))
	buf.WriteByte(byte(u.Trigger))
	buf.WriteByte(byte(u.Status))
	buf.Write(make([]byte, 3))
	binary.Write(buf, binary.LittleEndian, u.Block)
	binary.Write(buf, binary.LittleEndian, u.TimeMs)
}

func encodeUpdateV2(buf *bytes.Buffer, u OrderUpdate) {
	buf.Write(u.Wallet[:])
	binary.Write(buf, binary.LittleEndian, u.OID)
	binary.Write(buf, binary.LittleEndian, u.Price)
	binary.Write(buf, binary.LittleEndian, u.Size)
	binary.Write(buf, binary.LittleEndian, u.OrigSize)
	buf.WriteByte(byte(u.Side))
	buf.WriteByte(byte(u.Type))
	buf.WriteByte(byte(u.TIF))
	buf.WriteByte(byte(u.Status))
	buf.Write(make([]byte, 4))
	binary.Write(buf, binary.LittleEndian, u.Block)
	binary.Write(buf, binary.LittleEndian, u.TimeMs)
}

// buildPayload encodes a full version-3 order-log payload.
func buildPayload(levels []DepthLevel, updates []OrderUpdate) []byte {
	var buf bytes.Buffer
	encodeHeader(&buf, 3, 7, uint32(len(levels)))
	for _, l := range levels {
		encodeDepthLevel(&buf, l)
	}
	encodeEndOfSnapshot(&buf, uint32(len(levels)))
	for _, u := range updates {
		encodeUpdateV3(&buf, u)
	}
	return buf.Bytes()
}

func lz4Archive(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeArchive(t *testing.T, payload []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instrument.bin")
	require.NoError(t, os.WriteFile(path, lz4Archive(t, payload), 0o644))
	return path
}

func testWallet(seed byte) hexid.Wallet {
	var w hexid.Wallet
	for i := range w {
		w[i] = seed + byte(i)
	}
	return w
}

func testLevels() []DepthLevel {
	return []DepthLevel{
		{Price: 2_538_100_000, Size: 5_000_000_000, Orders: 3, Side: Bid},
		{Price: 2_538_200_000, Size: 1_250_000_000, Orders: 1, Side: Ask},
	}
}

func testUpdates() []OrderUpdate {
	return []OrderUpdate{
		{
			Wallet: testWallet(1), OID: 101, Cloid: hexid.ParseCloid("0x000102030405060708090a0b0c0d0e0f"),
			Price: 2_538_100_000, Size: 1_000_000_000, OrigSize: 1_000_000_000,
			Side: Bid, Type: OrderTypeLimit, TIF: GTC, Trigger: TriggerNone, Status: StatusOpen,
			Block: 1000, TimeMs: 1_700_000_000_000,
		},
		{
			Wallet: testWallet(1), OID: 101,
			Price: 2_538_100_000, Size: 0, OrigSize: 1_000_000_000, Filled: 1_000_000_000,
			Side: Bid, Type: OrderTypeLimit, TIF: GTC, Trigger: TriggerNone, Status: StatusFilled,
			Block: 1004, TimeMs: 1_700_000_004_000,
		},
		{
			Wallet: testWallet(9), OID: 102,
			Price: 2_600_000_000, Size: 750_000_000, OrigSize: 750_000_000,
			Side: Ask, Type: OrderTypeTrigger, TIF: IOC, Trigger: TriggerStopLoss, TriggerPrice: 2_590_000_000,
			Status: StatusCanceled, Block: 1010, TimeMs: 1_700_000_010_000,
		},
	}
}
