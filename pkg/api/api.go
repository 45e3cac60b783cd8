package api

import (
	"github.com/pkg/errors"
)

// Op discriminates the request envelopes a repair daemon understands.
type Op string

const (
	// OpAdd asks the daemon to add a disk back into service.
	OpAdd Op = "add"

	// OpRemove asks the daemon to take a disk out of service.
	OpRemove Op = "remove"

	// OpList asks the daemon for the disks it can see.
	OpList Op = "list"

	// OpSafeToRemove asks the daemon whether a disk can be taken out
	// without data loss.
	OpSafeToRemove Op = "safe_to_remove"

	// OpGetCreatedTickets asks the daemon for the repair tickets it has
	// filed.
	OpGetCreatedTickets Op = "get_created_tickets"
)

// ResultType discriminates a reply envelope between success and failure.
type ResultType string

const (
	// ResultOK marks a reply whose payload is valid.
	ResultOK ResultType = "OK"

	// ResultErr marks a reply that carries an error message instead of a
	// payload.
	ResultErr ResultType = "ERR"
)

// Operation is the request envelope. Only Op is always meaningful; the
// remaining fields are read according to the operation kind.
type Operation struct {
	Op       Op      `msgpack:"op_type"`
	Disk     string  `msgpack:"disk,omitempty"`
	OSDID    *uint64 `msgpack:"osd_id,omitempty"`
	Simulate bool    `msgpack:"simulate,omitempty"`
}

// OpResult is the reply envelope for operations with no payload.
type OpResult struct {
	Result   ResultType `msgpack:"result"`
	ErrorMsg string     `msgpack:"error_msg,omitempty"`
}

// Err translates the envelope into a Go error. A failed result that does
// not carry a message is reported as its own condition rather than being
// mistaken for success.
func (r OpResult) Err() error {
	if r.Result == ResultOK {
		return nil
	}
	if r.ErrorMsg == "" {
		return errors.New("error message not set")
	}
	return errors.New(r.ErrorMsg)
}

// OpBoolResult is the reply envelope for yes/no questions.
type OpBoolResult struct {
	Result   ResultType `msgpack:"result"`
	Value    bool       `msgpack:"value,omitempty"`
	ErrorMsg string     `msgpack:"error_msg,omitempty"`
}

// Err translates the envelope into a Go error, as for OpResult.
func (r OpBoolResult) Err() error {
	return OpResult{Result: r.Result, ErrorMsg: r.ErrorMsg}.Err()
}

// Disk describes one block device as seen by the repair daemon.
type Disk struct {
	Type         string `msgpack:"type,omitempty"`
	DevPath      string `msgpack:"dev_path"`
	SerialNumber string `msgpack:"serial_number,omitempty"`
}

// DiskResult is the reply envelope for disk listings.
type DiskResult struct {
	Result   ResultType `msgpack:"result"`
	Disks    []Disk     `msgpack:"disks,omitempty"`
	ErrorMsg string     `msgpack:"error_msg,omitempty"`
}

// Err translates the envelope into a Go error, as for OpResult.
func (r DiskResult) Err() error {
	return OpResult{Result: r.Result, ErrorMsg: r.ErrorMsg}.Err()
}

// TicketInfo identifies one repair ticket filed by the daemon.
type TicketInfo struct {
	TicketID   string `msgpack:"ticket_id"`
	ServerName string `msgpack:"server_name,omitempty"`
}

// TicketResult is the reply envelope for filed-ticket listings.
type TicketResult struct {
	Result   ResultType   `msgpack:"result"`
	Tickets  []TicketInfo `msgpack:"tickets,omitempty"`
	ErrorMsg string       `msgpack:"error_msg,omitempty"`
}

// Err translates the envelope into a Go error, as for OpResult.
func (r TicketResult) Err() error {
	return OpResult{Result: r.Result, ErrorMsg: r.ErrorMsg}.Err()
}
