package api

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Replies larger than this are assumed to be stream corruption rather
// than a legitimate payload.
const maxMessageSize = 1 << 24

// WriteMessage encodes v and writes it to w as a single length-prefixed
// frame.
func WriteMessage(w io.Writer, v interface{}) error {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode message")
	}
	if len(payload) > maxMessageSize {
		return errors.Errorf("message of %d bytes exceeds frame limit", len(payload))
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "failed to write frame header")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "failed to write frame payload")
	}
	return nil
}

// ReadMessage reads a single length-prefixed frame from r and decodes it
// into v.
func ReadMessage(r io.Reader, v interface{}) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return errors.Wrap(err, "failed to read frame header")
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > maxMessageSize {
		return errors.Errorf("frame of %d bytes exceeds frame limit", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return errors.Wrap(err, "failed to read frame payload")
	}
	if err := msgpack.Unmarshal(payload, v); err != nil {
		return errors.Wrap(err, "failed to decode message")
	}
	return nil
}
