package client

import (
	"crypto/tls"
	"net"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/spoke-d/filament/internal/cert"
	"github.com/spoke-d/filament/pkg/api"
	"github.com/spoke-d/filament/pkg/config"
)

// Client talks the repair protocol to one daemon over an encrypted
// channel. Calls run in strict lockstep, one request per reply, so a
// Client must not be shared between goroutines without external
// synchronization.
type Client struct {
	conn   net.Conn
	logger log.Logger
}

// New creates a Client connected to the daemon at the given address. A
// fresh keypair is generated for the session and the daemon certificate,
// supplied out of band in PEM form, is pinned as the only trusted peer.
func New(address, serverCert string, options ...Option) (*Client, error) {
	opts := newOptions()
	for _, option := range options {
		option(opts)
	}

	info, err := opts.certGenerator.GenerateSessionInfo()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session keypair")
	}
	config, err := cert.ClientTLSConfig(info, serverCert)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	dialer := &net.Dialer{
		Timeout: opts.dialTimeout,
	}
	conn, err := tls.DialWithDialer(dialer, "tcp", hostAddress(address), config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %q", address)
	}

	return &Client{
		conn:   conn,
		logger: opts.logger,
	}, nil
}

// NewFromConfig creates a Client connected to the daemon described by the
// settings, using the pinned certificate they carry.
func NewFromConfig(settings config.Settings, options ...Option) (*Client, error) {
	return New(settings.Daemon.Address(), settings.Daemon.ServerCert, options...)
}

// Close shuts the channel down. The Client can not be reused afterwards.
func (c *Client) Close() error {
	return c.conn.Close()
}

// AddDisk requests that the disk at the given path is put back into
// service. The optional id names the storage cluster member the disk
// backed. With simulate set, the daemon reports what it would do without
// touching the disk.
func (c *Client) AddDisk(path string, id *uint64, simulate bool) error {
	var result api.OpResult
	err := c.call(api.Operation{
		Op:       api.OpAdd,
		Disk:     path,
		OSDID:    id,
		Simulate: simulate,
	}, &result)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(result.Err(), "failed to add disk %q", path)
}

// RemoveDisk requests that the disk at the given path is taken out of
// service.
func (c *Client) RemoveDisk(path string, id *uint64, simulate bool) error {
	var result api.OpResult
	err := c.call(api.Operation{
		Op:       api.OpRemove,
		Disk:     path,
		OSDID:    id,
		Simulate: simulate,
	}, &result)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(result.Err(), "failed to remove disk %q", path)
}

// ListDisks returns the disks the daemon can see on its host.
func (c *Client) ListDisks() ([]api.Disk, error) {
	var result api.DiskResult
	err := c.call(api.Operation{
		Op: api.OpList,
	}, &result)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := result.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list disks")
	}
	return result.Disks, nil
}

// SafeToRemove reports whether the disk at the given path can be taken
// out of service without risking data loss.
func (c *Client) SafeToRemove(path string) (bool, error) {
	var result api.OpBoolResult
	err := c.call(api.Operation{
		Op:   api.OpSafeToRemove,
		Disk: path,
	}, &result)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if err := result.Err(); err != nil {
		return false, errors.Wrapf(err, "failed to query disk %q", path)
	}
	return result.Value, nil
}

// GetCreatedTickets returns the repair tickets the daemon has filed.
func (c *Client) GetCreatedTickets() ([]api.TicketInfo, error) {
	var result api.TicketResult
	err := c.call(api.Operation{
		Op: api.OpGetCreatedTickets,
	}, &result)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := result.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to fetch created tickets")
	}
	for _, ticket := range result.Tickets {
		level.Debug(c.logger).Log("msg", "created ticket", "ticket-id", ticket.TicketID, "server-name", ticket.ServerName)
	}
	return result.Tickets, nil
}

func (c *Client) call(op api.Operation, result interface{}) error {
	if err := api.WriteMessage(c.conn, op); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(api.ReadMessage(c.conn, result))
}

// hostAddress strips the tcp scheme prefix the original configuration
// format carries around.
func hostAddress(address string) string {
	return strings.TrimPrefix(address, "tcp://")
}
