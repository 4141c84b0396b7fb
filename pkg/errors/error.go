package errors

// ErrorCode represents a specific error code in the decoder.
type ErrorCode string

const (
	// ArchiveIOError represents a failure opening or reading an archive.
	ArchiveIOError ErrorCode = "archive_io_error"
	// DecompressionError represents a malformed compressed transport stream.
	DecompressionError ErrorCode = "decompression_error"
	// OrderLogCorruptError represents a structurally invalid or truncated order-log record.
	OrderLogCorruptError ErrorCode = "order_log_corrupt"
	// UnsupportedVersionError represents a file header declaring a record layout
	// version this decoder does not know.
	UnsupportedVersionError ErrorCode = "unsupported_format_version"
	// UsageError represents calling reader operations out of their documented order.
	UsageError ErrorCode = "reader_usage_error"

	// SnapshotNotFoundError represents a snapshot lookup with no matching index entry.
	SnapshotNotFoundError ErrorCode = "snapshot_not_found"
	// SnapshotIndexCorruptError represents a multi-snapshot header or index that
	// violates the format's structural invariants.
	SnapshotIndexCorruptError ErrorCode = "snapshot_index_corrupt"
)

// CodeOf walks the error chain and returns the ErrorCode of the outermost
// ErrorTracer, or the empty code when the chain carries none.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if tracer, ok := err.(*ErrorTracer); ok {
			return tracer.Code
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = unwrapper.Unwrap()
	}
	return ""
}

// HasCode reports whether any error in the chain is an ErrorTracer carrying
// the given code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if tracer, ok := err.(*ErrorTracer); ok && tracer.Code == code {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// IsCorrupt reports whether err signals structural corruption in either format.
func IsCorrupt(err error) bool {
	return HasCode(err, OrderLogCorruptError) || HasCode(err, SnapshotIndexCorruptError)
}

// IsNotFound reports whether err signals a missing snapshot.
func IsNotFound(err error) bool {
	return HasCode(err, SnapshotNotFoundError)
}

// IsDecompression reports whether err signals a malformed compressed stream.
func IsDecompression(err error) bool {
	return HasCode(err, DecompressionError)
}
