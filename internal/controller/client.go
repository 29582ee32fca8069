package controller

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

type Client struct {
	address       string
	conn          net.Conn
	mu            sync.Mutex
	transactionID uint16
	timeout       time.Duration
	connected     bool
}

func NewClient(address string, timeout time.Duration) *Client {
	return &Client{
		address:       address,
		timeout:       timeout,
		transactionID: 0,
	}
}

// Connect establishes the TCP connection.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	conn, err := net.DialTimeout("tcp", c.address, c.timeout)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	c.conn = conn
	c.connected = true

	return nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	err := c.conn.Close()
	c.connected = false
	c.conn = nil

	return err
}

// IsConnected reports the link state.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SendFrame sends one request frame and waits for the response.
func (c *Client) SendFrame(ctx context.Context, request *Frame) (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, fmt.Errorf("not connected")
	}

	// Unique transaction ID
	c.transactionID++
	request.TransactionID = c.transactionID

	requestData := request.Encode()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetWriteDeadline(deadline)

	_, err := c.conn.Write(requestData)
	if err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}

	c.conn.SetReadDeadline(deadline)

	// Header first, then exactly the announced body; TCP may split the
	// frame across reads.
	header := make([]byte, 6)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	length := binary.BigEndian.Uint16(header[4:6])
	if length < 2 || length > 2+snapshotBytes {
		return nil, fmt.Errorf("invalid frame length: %d", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	response, err := DecodeFrame(append(header, body...))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	if response.TransactionID != request.TransactionID {
		return nil, fmt.Errorf("transaction ID mismatch: expected %d, got %d",
			request.TransactionID, response.TransactionID)
	}

	return response, nil
}

// ReadJointSnapshot fetches the current joint state of a mechanical unit.
func (c *Client) ReadJointSnapshot(ctx context.Context, unitID uint8) (*Snapshot, error) {
	request := ReadJointSnapshotRequest(0, unitID)

	response, err := c.SendFrame(ctx, request)
	if err != nil {
		return nil, err
	}

	return response.ParseSnapshotResponse()
}

// WriteIOSignal sets a digital signal on the controller.
func (c *Client) WriteIOSignal(ctx context.Context, unitID uint8, signal uint16, value bool) error {
	request := WriteIOSignalRequest(0, unitID, signal, value)

	_, err := c.SendFrame(ctx, request)
	return err
}

// ReadStatus fetches the controller execution state word.
func (c *Client) ReadStatus(ctx context.Context, unitID uint8) (uint16, error) {
	request := &Frame{ProtocolID: 0x0000, UnitID: unitID, FunctionCode: FuncReadStatus}

	response, err := c.SendFrame(ctx, request)
	if err != nil {
		return 0, err
	}
	if len(response.Data) < 2 {
		return 0, fmt.Errorf("status response too short")
	}
	return binary.BigEndian.Uint16(response.Data[0:2]), nil
}
