// internal/reader/reader.go
package reader

// Reader fetches one contiguous byte span from a device data block.
// Implementations own the connection; the decode pipeline never sees
// anything but the returned bytes.
type Reader interface {
	// ReadBlock returns exactly size bytes starting at byte position
	// start within data block db, or an error. Partial results are
	// never returned.
	ReadBlock(db, start, size int) ([]byte, error)

	Close() error
}

// Factory dials a new device connection. One attempt per call; retry
// pacing belongs to the poll loop.
type Factory func() (Reader, error)
