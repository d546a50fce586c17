// internal/reader/modbusgw/client.go
package modbusgw

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// maxRegistersPerRead is the Modbus PDU limit for function code 3.
const maxRegistersPerRead = 125

// Config is minimal transport config for a Modbus-TCP data block
// gateway. Each S7 data block is exposed as a window of holding
// registers starting at a configured base address, two block bytes per
// register, big-endian.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration

	// BlockBase maps a data block number to the holding-register
	// address where its byte 0 begins.
	BlockBase map[int]uint16
}

// Client reads data block spans through a Modbus-TCP gateway. It is an
// adapter only: span selection and decoding happen elsewhere.
type Client struct {
	handler *modbus.TCPClientHandler
	mb      modbus.Client
	base    map[int]uint16
}

// New creates a connected gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbusgw: endpoint required")
	}

	handler := modbus.NewTCPClientHandler(cfg.Endpoint)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("modbusgw: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		handler: handler,
		mb:      modbus.NewClient(handler),
		base:    cfg.BlockBase,
	}, nil
}

// ReadBlock fetches size bytes at byte position start of data block db.
func (c *Client) ReadBlock(db, start, size int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}

	base, ok := c.base[db]
	if !ok {
		return nil, fmt.Errorf("modbusgw: no register base configured for data block %d", db)
	}

	firstReg, qty, skip := regWindow(start, size)

	raw := make([]byte, 0, qty*2)
	for done := 0; done < qty; {
		n := qty - done
		if n > maxRegistersPerRead {
			n = maxRegistersPerRead
		}

		addr := base + uint16(firstReg+done)
		data, err := c.mb.ReadHoldingRegisters(addr, uint16(n))
		if err != nil {
			return nil, fmt.Errorf("modbusgw: read db=%d addr=%d qty=%d: %w", db, addr, n, err)
		}
		if len(data) != n*2 {
			return nil, fmt.Errorf("modbusgw: short read db=%d addr=%d: got %d bytes, want %d",
				db, addr, len(data), n*2)
		}

		raw = append(raw, data...)
		done += n
	}

	return raw[skip : skip+size], nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// regWindow converts a byte window into the covering register window.
// Returns the first register index, the register count, and how many
// leading bytes of the register data to skip.
func regWindow(start, size int) (first, qty, skip int) {
	first = start / 2
	last := (start + size - 1) / 2
	return first, last - first + 1, start - first*2
}
