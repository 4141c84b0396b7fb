package orderlog

import (
	"io"

	"github.com/alphaquick/hldata/pkg/errors"
)

// Reader sequences the two logical sections of an order-log file for typical
// backtesting access: first the midnight depth snapshot, then the day's
// order updates.
type Reader struct {
	br           *BinaryReader
	snapshotDone bool
}

// Open opens the order-log archive at path.
func Open(path string, opts ...Option) (*Reader, error) {
	br, err := OpenBinaryReader(path, opts...)
	if err != nil {
		return nil, err
	}
	return &Reader{br: br}, nil
}

// NewReader wraps an already-opened archive byte source.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	br, err := NewBinaryReader(r, opts...)
	if err != nil {
		return nil, err
	}
	return &Reader{br: br}, nil
}

// Header returns the parsed file header.
func (r *Reader) Header() FileHeader {
	return r.br.Header()
}

// ReadDepthSnapshot consumes the leading snapshot section through the
// end-of-snapshot marker and returns the levels partitioned by side, in file
// order. It may be called at most once, before the update stream is consumed.
func (r *Reader) ReadDepthSnapshot() (*DepthSnapshot, error) {
	if r.snapshotDone {
		return nil, errors.NewTracer(errors.UsageError).
			WithMessagef("depth snapshot already consumed")
	}

	snap := &DepthSnapshot{}
	for r.br.Next() {
		switch msg := r.br.Message().(type) {
		case DepthLevel:
			if msg.Side == Bid {
				snap.Bids = append(snap.Bids, msg)
			} else {
				snap.Asks = append(snap.Asks, msg)
			}
		case EndOfSnapshot:
			r.snapshotDone = true
			return snap, nil
		}
	}
	if err := r.br.Err(); err != nil {
		return nil, err
	}
	// Next returned false before the marker: the stream ended inside the
	// snapshot section, which parseHeader should have caught.
	return nil, errors.NewTracer(errors.OrderLogCorruptError).
		WithMessagef("stream ended before end-of-snapshot marker")
}

// Updates returns the order-update section as a lazy iterator. When the
// depth snapshot has not been read yet, the snapshot section is skipped
// transparently and its levels are discarded.
func (r *Reader) Updates() *UpdateIter {
	it := &UpdateIter{br: r.br}
	if !r.snapshotDone {
		for r.br.Next() {
			if _, ok := r.br.Message().(EndOfSnapshot); ok {
				r.snapshotDone = true
				break
			}
		}
		if err := r.br.Err(); err != nil {
			it.err = err
		}
	}
	return it
}

// Close releases the underlying payload.
func (r *Reader) Close() error {
	return r.br.Close()
}

// UpdateIter iterates the order-update section. Mid-stream corruption
// surfaces through Err after Next returns false; updates yielded before the
// failure remain valid.
type UpdateIter struct {
	br  *BinaryReader
	cur OrderUpdate
	err error
}

// Next advances to the next order update.
func (it *UpdateIter) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.br.Next() {
		it.err = it.br.Err()
		return false
	}
	// Past the end-of-snapshot marker the stream only yields order updates.
	it.cur = it.br.Message().(OrderUpdate)
	return true
}

// Update returns the update decoded by the last successful Next.
func (it *UpdateIter) Update() OrderUpdate {
	return it.cur
}

// Err returns the terminal decode error, or nil after a clean end of stream.
func (it *UpdateIter) Err() error {
	return it.err
}
