// Package listener implements the blocking beacon receiver for svcbeacon.
package listener

import (
	"bytes"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"svcbeacon/internal/beacon"
)

// Listener receives broadcast datagrams on a fixed port and filters them by
// service name.
//
// A Listener must be driven by a single caller at a time: every Wait call
// resets the socket's read deadline, so concurrent Wait calls on the same
// instance are undefined behavior.
type Listener struct {
	conn   *net.UDPConn
	filter []byte
	log    zerolog.Logger
}

// New binds a UDP socket on 0.0.0.0:port and stores the service name filter.
// Port 0 binds an ephemeral port, retrievable through Port.
func New(serviceName []byte, port int, log zerolog.Logger) (*Listener, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, fmt.Errorf("binding listener socket 0.0.0.0:%d: %w", port, err)
	}

	log.Info().
		Str("local", conn.LocalAddr().String()).
		Str("service", string(serviceName)).
		Msg("Listening for beacons")

	return &Listener{
		conn:   conn,
		filter: append([]byte(nil), serviceName...),
		log:    log,
	}, nil
}

// Port returns the UDP port the listener is bound to.
func (l *Listener) Port() int {
	return l.conn.LocalAddr().(*net.UDPAddr).Port
}

// Wait blocks until a beacon whose service name equals the filter arrives.
//
// A timeout greater than zero bounds the whole call as a single deadline,
// including time spent discarding non-matching traffic. Zero or negative
// blocks indefinitely. On expiry the returned error satisfies
// errors.Is(err, os.ErrDeadlineExceeded). Malformed and non-matching
// datagrams are discarded silently, never surfaced as errors.
func (l *Listener) Wait(timeout time.Duration) (*beacon.Beacon, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("setting read deadline: %w", err)
	}

	buf := make([]byte, beacon.MaxDatagramSize)
	for {
		n, src, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			return nil, fmt.Errorf("receiving beacon: %w", err)
		}

		servicePort, serviceName, err := beacon.Decode(buf[:n])
		if err != nil {
			l.log.Debug().
				Str("src", src.String()).
				Int("bytes", n).
				Msg("Discarding non-beacon datagram")
			continue
		}
		if !bytes.Equal(serviceName, l.filter) {
			l.log.Debug().
				Str("src", src.String()).
				Str("service", string(serviceName)).
				Msg("Discarding beacon for other service")
			continue
		}

		b := &beacon.Beacon{
			ServiceIP:   src.IP.String(),
			ServicePort: servicePort,
			ServiceName: append([]byte(nil), serviceName...),
		}

		l.log.Info().
			Str("ip", b.ServiceIP).
			Uint16("service_port", b.ServicePort).
			Msg("Beacon received")

		return b, nil
	}
}

// Close releases the listener's socket.
func (l *Listener) Close() error {
	return l.conn.Close()
}
