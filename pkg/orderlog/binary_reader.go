package orderlog

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/alphaquick/hldata/internal/compress"
	"github.com/alphaquick/hldata/pkg/errors"
	"github.com/alphaquick/hldata/pkg/logger"
)

// Order-log layout, little-endian. The header declares the depth-snapshot
// section; the order-update section runs to the end of the payload.
const (
	fileMagic uint32 = 0x4C4F4C48 // "HLOL"
	eosMarker uint64 = 0xF0F0F0F0F0F0F0F0

	fileHeaderSize    = 16
	depthLevelSize    = 32
	endOfSnapshotSize = 16

	orderUpdateV2Size = 76
	orderUpdateV3Size = 108
)

// updateLayouts maps a header-declared format version to its order-update
// record layout. Unknown versions are rejected at open time.
var updateLayouts = map[uint16]struct {
	size   int
	decode func(b []byte) OrderUpdate
}{
	2: {orderUpdateV2Size, decodeOrderUpdateV2},
	3: {orderUpdateV3Size, decodeOrderUpdateV3},
}

// BinaryReader is the low-level streaming decoder over one order-log file.
// It owns the decompressed payload and a cursor, and yields each record once
// in file order:
//
//	for br.Next() {
//		switch msg := br.Message().(type) { ... }
//	}
//	if err := br.Err(); err != nil { ... }
//
// The sequence is forward-only and single pass; open a new reader to iterate
// again.
type BinaryReader struct {
	header FileHeader
	buf    []byte
	off    int
	recIdx int

	levelsLeft uint32
	markerSeen bool

	updateSize int
	decode     func(b []byte) OrderUpdate

	msg  Message
	err  error
	done bool

	rawSize int64
	log     *logger.Logger
}

// OpenBinaryReader opens and fully reads the archive at path. The file handle
// is released before OpenBinaryReader returns; the reader works off the
// in-memory payload.
func OpenBinaryReader(path string, opts ...Option) (*BinaryReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewTracer(errors.ArchiveIOError).Wrap(err)
	}
	defer f.Close()

	return NewBinaryReader(f, opts...)
}

// NewBinaryReader reads the whole archive from r and prepares iteration. It
// accepts the framed (LZ4 or zstd) archive as produced upstream, or an
// already-decompressed payload.
func NewBinaryReader(r io.Reader, opts ...Option) (*BinaryReader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewTracer(errors.ArchiveIOError).Wrap(err)
	}

	payload := raw
	if compress.IsCompressed(raw) {
		if payload, err = compress.Decompress(raw); err != nil {
			return nil, err
		}
	}

	br := &BinaryReader{
		buf:     payload,
		rawSize: int64(len(raw)),
		log:     o.log,
	}
	if err := br.parseHeader(); err != nil {
		return nil, err
	}

	br.log.Debug("order log opened",
		logger.NewField("version", br.header.Version),
		logger.NewField("instrument_id", br.header.InstrumentID),
		logger.NewField("depth_levels", br.header.DepthLevels),
	)
	return br, nil
}

func (r *BinaryReader) parseHeader() error {
	if len(r.buf) < fileHeaderSize {
		return errors.NewTracer(errors.OrderLogCorruptError).
			WithMessagef("payload too short for header: %d bytes", len(r.buf))
	}
	if magic := binary.LittleEndian.Uint32(r.buf[0:4]); magic != fileMagic {
		return errors.NewTracer(errors.OrderLogCorruptError).
			WithMessagef("bad magic 0x%08x, want 0x%08x", magic, fileMagic)
	}

	r.header = FileHeader{
		Version:      binary.LittleEndian.Uint16(r.buf[4:6]),
		InstrumentID: binary.LittleEndian.Uint32(r.buf[8:12]),
		DepthLevels:  binary.LittleEndian.Uint32(r.buf[12:16]),
	}
	if flags := binary.LittleEndian.Uint16(r.buf[6:8]); flags != 0 {
		return errors.NewTracer(errors.OrderLogCorruptError).
			WithMessagef("reserved header flags set: 0x%04x", flags)
	}

	layout, ok := updateLayouts[r.header.Version]
	if !ok {
		return errors.NewTracer(errors.UnsupportedVersionError).
			WithMessagef("order-log format version %d", r.header.Version)
	}
	r.updateSize = layout.size
	r.decode = layout.decode

	snapshotEnd := fileHeaderSize + int64(r.header.DepthLevels)*depthLevelSize + endOfSnapshotSize
	if snapshotEnd > int64(len(r.buf)) {
		return errors.NewTracer(errors.OrderLogCorruptError).
			WithMessagef("declared snapshot section ends at %d, payload is %d bytes", snapshotEnd, len(r.buf))
	}

	r.off = fileHeaderSize
	r.levelsLeft = r.header.DepthLevels
	return nil
}

// Header returns the parsed file header.
func (r *BinaryReader) Header() FileHeader {
	return r.header
}

// Next advances to the next message. It returns false at end of stream or on
// the first structurally invalid record; Err distinguishes the two.
func (r *BinaryReader) Next() bool {
	if r.err != nil || r.done {
		return false
	}

	switch {
	case r.levelsLeft > 0:
		if !r.need(depthLevelSize, "depth level") {
			return false
		}
		r.msg = decodeDepthLevel(r.buf[r.off : r.off+depthLevelSize])
		r.advance(depthLevelSize)
		r.levelsLeft--

	case !r.markerSeen:
		if !r.need(endOfSnapshotSize, "end-of-snapshot marker") {
			return false
		}
		if marker := binary.LittleEndian.Uint64(r.buf[r.off : r.off+8]); marker != eosMarker {
			r.err = errors.NewTracer(errors.OrderLogCorruptError).
				WithMessagef("expected end-of-snapshot marker at offset %d, got 0x%016x", r.off, marker)
			return false
		}
		levels := binary.LittleEndian.Uint32(r.buf[r.off+8 : r.off+12])
		if levels != r.header.DepthLevels {
			r.err = errors.NewTracer(errors.OrderLogCorruptError).
				WithMessagef("end-of-snapshot level count %d does not match header %d", levels, r.header.DepthLevels)
			return false
		}
		r.msg = EndOfSnapshot{Levels: levels}
		r.advance(endOfSnapshotSize)
		r.markerSeen = true

	default:
		if r.off == len(r.buf) {
			r.done = true
			return false
		}
		if !r.need(r.updateSize, "order update") {
			return false
		}
		r.msg = r.decode(r.buf[r.off : r.off+r.updateSize])
		r.advance(r.updateSize)
	}
	return true
}

// Message returns the message decoded by the last successful Next.
func (r *BinaryReader) Message() Message {
	return r.msg
}

// Err returns the terminal decode error, or nil after a clean end of stream.
func (r *BinaryReader) Err() error {
	return r.err
}

// Close stops iteration and releases the payload. Closing before exhausting
// the stream is always safe.
func (r *BinaryReader) Close() error {
	r.done = true
	r.buf = nil
	return nil
}

// RawSize returns the archive size in bytes as read, before decompression.
func (r *BinaryReader) RawSize() int64 {
	return r.rawSize
}

// DecompressedSize returns the payload size in bytes after decompression.
func (r *BinaryReader) DecompressedSize() int64 {
	return int64(len(r.buf))
}

func (r *BinaryReader) advance(n int) {
	r.off += n
	r.recIdx++
}

func (r *BinaryReader) need(n int, what string) bool {
	if remain := len(r.buf) - r.off; remain < n {
		r.err = errors.NewTracer(errors.OrderLogCorruptError).
			WithMessagef("truncated %s at offset %d (record %d): need %d bytes, %d remain", what, r.off, r.recIdx, n, remain)
		return false
	}
	return true
}

func decodeDepthLevel(b []byte) DepthLevel {
	return DepthLevel{
		Price:  int64(binary.LittleEndian.Uint64(b[0:8])),
		Size:   int64(binary.LittleEndian.Uint64(b[8:16])),
		Orders: binary.LittleEndian.Uint64(b[16:24]),
		Side:   Side(b[24]),
	}
}

func decodeOrderUpdateV3(b []byte) OrderUpdate {
	var u OrderUpdate
	copy(u.Wallet[:], b[0:20])
	u.OID = binary.LittleEndian.Uint64(b[20:28])
	copy(u.Cloid[:], b[28:44])
	u.Price = int64(binary.LittleEndian.Uint64(b[44:52]))
	u.Size = int64(binary.LittleEndian.Uint64(b[52:60]))
	u.OrigSize = int64(binary.LittleEndian.Uint64(b[60:68]))
	u.TriggerPrice = int64(binary.LittleEndian.Uint64(b[68:76]))
	u.Filled = int64(binary.LittleEndian.Uint64(b[76:84]))
	u.Side = Side(b[84])
	u.Type = OrderType(b[85])
	u.TIF = TimeInForce(b[86])
	u.Trigger = TriggerCondition(b[87])
	u.Status = OrderStatus(b[88])
	u.Block = binary.LittleEndian.Uint64(b[92:100])
	u.TimeMs = binary.LittleEndian.Uint64(b[100:108])
	return u
}

// decodeOrderUpdateV2 handles the older layout without cloid, trigger price
// and cumulative fill. Missing fields decode to their zero values.
func decodeOrderUpdateV2(b []byte) OrderUpdate {
	var u OrderUpdate
	copy(u.Wallet[:], b[0:20])
	u.OID = binary.LittleEndian.Uint64(b[20:28])
	u.Price = int64(binary.LittleEndian.Uint64(b[28:36]))
	u.Size = int64(binary.LittleEndian.Uint64(b[36:44]))
	u.OrigSize = int64(binary.LittleEndian.Uint64(b[44:52]))
	u.Side = Side(b[52])
	u.Type = OrderType(b[53])
	u.TIF = TimeInForce(b[54])
	u.Status = OrderStatus(b[55])
	u.Block = binary.LittleEndian.Uint64(b[60:68])
	u.TimeMs = binary.LittleEndian.Uint64(b[68:76])
	return u
}
