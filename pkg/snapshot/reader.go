package snapshot

import (
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/alphaquick/hldata/internal/compress"
	"github.com/alphaquick/hldata/pkg/errors"
	"github.com/alphaquick/hldata/pkg/logger"
	"github.com/alphaquick/hldata/pkg/orderlog"
)

// Multi-snapshot layout, little-endian: header, index table, then the
// concatenated snapshot bodies.
const (
	fileMagic uint32 = 0x4E534C48 // "HLSN"

	supportedVersion = 1

	headerSize      = 24
	indexEntrySize  = 32
	orderRecordSize = 48
)

// Option configures a reader.
type Option func(*options)

type options struct {
	log *logger.Logger
}

// WithLogger attaches a structured logger to the reader. Readers log nothing
// by default.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Reader gives random and bulk access to the snapshots embedded in one
// multi-snapshot archive. The header and index are parsed eagerly at open;
// snapshot bodies are decoded only when asked for, and each read touches only
// that entry's byte range.
type Reader struct {
	header Header
	index  []IndexEntry
	buf    []byte
	log    *logger.Logger
}

// Open opens and fully reads the multi-snapshot archive at path.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewTracer(errors.ArchiveIOError).Wrap(err)
	}
	defer f.Close()

	return NewReader(f, opts...)
}

// NewReader reads the whole archive from r and parses the header and index.
// Like the order-log readers it accepts the framed archive or an
// already-decompressed payload.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	o := &options{log: logger.NewNop()}
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

	sr := &Reader{buf: payload, log: o.log}
	if err := sr.parse(); err != nil {
		return nil, err
	}

	sr.log.Debug("snapshot archive opened",
		logger.NewField("instrument_id", sr.header.InstrumentID),
		logger.NewField("snapshots", sr.header.Count),
	)
	return sr, nil
}

func (r *Reader) parse() error {
	if len(r.buf) < headerSize {
		return errors.NewTracer(errors.SnapshotIndexCorruptError).
			WithMessagef("payload too short for header: %d bytes", len(r.buf))
	}
	if magic := binary.LittleEndian.Uint32(r.buf[0:4]); magic != fileMagic {
		return errors.NewTracer(errors.SnapshotIndexCorruptError).
			WithMessagef("bad magic 0x%08x, want 0x%08x", magic, fileMagic)
	}

	r.header = Header{
		Version:      binary.LittleEndian.Uint16(r.buf[4:6]),
		InstrumentID: binary.LittleEndian.Uint32(r.buf[8:12]),
		Count:        binary.LittleEndian.Uint32(r.buf[12:16]),
	}
	if r.header.Version != supportedVersion {
		return errors.NewTracer(errors.UnsupportedVersionError).
			WithMessagef("multi-snapshot format version %d", r.header.Version)
	}
	if flags := binary.LittleEndian.Uint16(r.buf[6:8]); flags != 0 {
		return errors.NewTracer(errors.SnapshotIndexCorruptError).
			WithMessagef("reserved header flags set: 0x%04x", flags)
	}

	indexEnd := int64(headerSize) + int64(r.header.Count)*indexEntrySize
	if indexEnd > int64(len(r.buf)) {
		return errors.NewTracer(errors.SnapshotIndexCorruptError).
			WithMessagef("index of %d entries ends at %d, payload is %d bytes", r.header.Count, indexEnd, len(r.buf))
	}

	r.index = make([]IndexEntry, 0, r.header.Count)
	midnightSeen := false
	prevEnd := uint64(indexEnd)
	for i := uint32(0); i < r.header.Count; i++ {
		b := r.buf[headerSize+int(i)*indexEntrySize:]
		entry := IndexEntry{
			BlockHeight: binary.LittleEndian.Uint64(b[0:8]),
			TimeMs:      binary.LittleEndian.Uint64(b[8:16]),
			Offset:      binary.LittleEndian.Uint64(b[16:24]),
			Orders:      binary.LittleEndian.Uint32(b[24:28]),
			Midnight:    b[28] != 0,
		}

		if i > 0 && entry.BlockHeight <= r.index[i-1].BlockHeight {
			return errors.NewTracer(errors.SnapshotIndexCorruptError).
				WithMessagef("index entry %d: block height %d not above previous %d", i, entry.BlockHeight, r.index[i-1].BlockHeight)
		}
		if entry.Midnight {
			if midnightSeen {
				return errors.NewTracer(errors.SnapshotIndexCorruptError).
					WithMessagef("index entry %d: second midnight entry", i)
			}
			if entry.BlockHeight != 0 {
				return errors.NewTracer(errors.SnapshotIndexCorruptError).
					WithMessagef("index entry %d: midnight entry at block height %d", i, entry.BlockHeight)
			}
			midnightSeen = true
		}

		// Bounds math stays in uint64 without wrapping: the offset is checked
		// against the payload before the body length enters the arithmetic.
		bufLen := uint64(len(r.buf))
		if entry.Offset < prevEnd || entry.Offset > bufLen ||
			uint64(entry.Orders) > (bufLen-entry.Offset)/orderRecordSize {
			return errors.NewTracer(errors.SnapshotIndexCorruptError).
				WithMessagef("index entry %d: body at offset %d with %d orders outside [%d, %d)", i, entry.Offset, entry.Orders, prevEnd, bufLen)
		}
		prevEnd = entry.Offset + uint64(entry.Orders)*orderRecordSize

		r.index = append(r.index, entry)
	}
	return nil
}

// Header returns the parsed file header.
func (r *Reader) Header() Header {
	return r.header
}

// Count returns the number of embedded snapshots.
func (r *Reader) Count() int {
	return len(r.index)
}

// HasMidnight reports whether the archive holds the synthetic midnight
// snapshot.
func (r *Reader) HasMidnight() bool {
	return len(r.index) > 0 && r.index[0].Midnight
}

// Snapshots returns the index in ascending block-height order. The returned
// slice is a copy; mutating it does not affect the reader.
func (r *Reader) Snapshots() []IndexEntry {
	out := make([]IndexEntry, len(r.index))
	copy(out, r.index)
	return out
}

// ReadMidnight decodes the midnight snapshot's orders. It fails with a
// not-found error when the archive has no midnight entry.
func (r *Reader) ReadMidnight() ([]Order, error) {
	if !r.HasMidnight() {
		return nil, errors.NewTracer(errors.SnapshotNotFoundError).
			WithMessagef("no midnight snapshot in archive")
	}
	return r.readBody(r.index[0]), nil
}

// Read decodes the snapshot captured at exactly blockHeight. There is no
// nearest-match fallback: a height absent from the index fails with a
// not-found error.
func (r *Reader) Read(blockHeight uint64) ([]Order, error) {
	i := sort.Search(len(r.index), func(i int) bool {
		return r.index[i].BlockHeight >= blockHeight
	})
	if i == len(r.index) || r.index[i].BlockHeight != blockHeight {
		return nil, errors.NewTracer(errors.SnapshotNotFoundError).
			WithMessagef("no snapshot at block height %d", blockHeight)
	}
	return r.readBody(r.index[i]), nil
}

// ReadAll decodes every snapshot in ascending block-height order. Intended
// for exhaustive validation or export, not the hot backtesting path.
func (r *Reader) ReadAll() ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(r.index))
	for _, entry := range r.index {
		out = append(out, Snapshot{
			Entry:  entry,
			Orders: r.readBody(entry),
		})
	}
	return out, nil
}

// Close releases the payload.
func (r *Reader) Close() error {
	r.buf = nil
	r.index = nil
	return nil
}

// readBody decodes one snapshot body. Bounds were validated at parse time.
// A body with zero orders decodes to a nil slice.
func (r *Reader) readBody(entry IndexEntry) []Order {
	if entry.Orders == 0 {
		return nil
	}
	orders := make([]Order, 0, entry.Orders)
	for i := uint32(0); i < entry.Orders; i++ {
		b := r.buf[entry.Offset+uint64(i)*orderRecordSize:]

		var o Order
		copy(o.Wallet[:], b[0:20])
		o.OID = binary.LittleEndian.Uint64(b[20:28])
		o.Price = int64(binary.LittleEndian.Uint64(b[28:36]))
		o.Size = int64(binary.LittleEndian.Uint64(b[36:44]))
		o.Side = orderlog.Side(b[44])
		orders = append(orders, o)
	}
	return orders
}
