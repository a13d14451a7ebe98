// Package beacon defines the beacon wire format and the broadcast sender.
package beacon

import (
	"encoding/binary"
	"errors"
)

const (
	// Magic is the two-byte sentinel opening every beacon datagram.
	// Datagrams with any other leading value are not beacons.
	Magic uint16 = 0xBEEF

	// headerSize covers the magic number and the service port.
	headerSize = 4

	// MaxDatagramSize bounds the receive buffer. Larger datagrams are
	// truncated by the transport before they reach the decoder.
	MaxDatagramSize = 1024
)

// ErrNotBeacon reports that a datagram does not carry beacon framing.
// Listeners discard such datagrams silently.
var ErrNotBeacon = errors.New("datagram is not a beacon")

// Encode frames a service announcement as magic number, service port (both
// big-endian) and the raw service name. The name has no length prefix; its
// length is implicit in the datagram length.
func Encode(servicePort uint16, serviceName []byte) []byte {
	buf := make([]byte, headerSize+len(serviceName))
	binary.BigEndian.PutUint16(buf[0:2], Magic)
	binary.BigEndian.PutUint16(buf[2:4], servicePort)
	copy(buf[headerSize:], serviceName)
	return buf
}

// Decode extracts the service port and name from a received datagram.
// It returns ErrNotBeacon if the buffer is shorter than the header or does
// not open with the magic number. The returned name aliases b.
func Decode(b []byte) (servicePort uint16, serviceName []byte, err error) {
	if len(b) < headerSize || binary.BigEndian.Uint16(b[0:2]) != Magic {
		return 0, nil, ErrNotBeacon
	}
	return binary.BigEndian.Uint16(b[2:4]), b[headerSize:], nil
}
