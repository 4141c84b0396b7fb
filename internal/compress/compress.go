// Package compress handles the block-compression transport the archives are
// shipped with. LZ4 frames are the standard transport; zstd is accepted as
// the alternate framing.
package compress

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/alphaquick/hldata/pkg/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	lz4FrameMagic uint32 = 0x184D2204
	zstdMagic     uint32 = 0xFD2FB528
)

// IsCompressed reports whether raw starts with a known transport framing
// magic. Payloads that are already decompressed return false.
func IsCompressed(raw []byte) bool {
	if len(raw) < 4 {
		return false
	}
	magic := binary.LittleEndian.Uint32(raw)
	return magic == lz4FrameMagic || magic == zstdMagic
}

// Decompress decodes a framed archive into its payload bytes. It fails with
// a DecompressionError on an unknown framing magic or a malformed stream.
func Decompress(raw []byte) ([]byte, error) {
	if len(raw) < 4 {
		return nil, errors.NewTracer(errors.DecompressionError).
			WithMessagef("archive too short for framing magic: %d bytes", len(raw))
	}

	switch binary.LittleEndian.Uint32(raw) {
	case lz4FrameMagic:
		payload, err := io.ReadAll(lz4.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, errors.NewTracer(errors.DecompressionError).Wrap(err)
		}
		return payload, nil

	case zstdMagic:
		dec, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.NewTracer(errors.DecompressionError).Wrap(err)
		}
		defer dec.Close()
		payload, err := io.ReadAll(dec)
		if err != nil {
			return nil, errors.NewTracer(errors.DecompressionError).Wrap(err)
		}
		return payload, nil

	default:
		return nil, errors.NewTracer(errors.DecompressionError).
			WithMessagef("unknown framing magic 0x%08x", binary.LittleEndian.Uint32(raw))
	}
}
