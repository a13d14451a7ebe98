package beacon

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

// BroadcastIP is the limited-broadcast destination for beacons, delivered to
// every host on the local network segment.
const BroadcastIP = "255.255.255.255"

// Sender broadcasts a fixed service announcement over UDP. The payload is
// encoded once at construction and never mutated afterwards, so every send
// writes identical bytes.
type Sender struct {
	conn    *net.UDPConn
	dst     *net.UDPAddr
	payload []byte
	log     zerolog.Logger
}

// NewSender binds an ephemeral local UDP socket and fixes the destination to
// 255.255.255.255:broadcastPort. The net package enables SO_BROADCAST on UDP
// sockets at creation, so the socket may broadcast as soon as it is bound.
func NewSender(servicePort uint16, serviceName []byte, broadcastPort int, log zerolog.Logger) (*Sender, error) {
	return NewSenderTo(servicePort, serviceName, fmt.Sprintf("%s:%d", BroadcastIP, broadcastPort), log)
}

// NewSenderTo is NewSender with an explicit destination address, letting
// tests and unusual network setups direct beacons somewhere other than the
// limited broadcast address.
func NewSenderTo(servicePort uint16, serviceName []byte, addr string, log zerolog.Logger) (*Sender, error) {
	dst, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("resolving broadcast address %s: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("binding local socket 0.0.0.0:0: %w", err)
	}

	log.Info().
		Str("local", conn.LocalAddr().String()).
		Str("target", dst.String()).
		Msg("Sender socket bound, broadcast mode on")

	return &Sender{
		conn:    conn,
		dst:     dst,
		payload: Encode(servicePort, serviceName),
		log:     log,
	}, nil
}

// SendOne sends the precomputed payload once and returns the byte count.
func (s *Sender) SendOne() (int, error) {
	n, err := s.conn.WriteToUDP(s.payload, s.dst)
	if err != nil {
		return 0, fmt.Errorf("writing beacon to %s: %w", s.dst, err)
	}

	s.log.Debug().
		Str("target", s.dst.String()).
		Int("bytes", n).
		Msg("Beacon sent")

	return n, nil
}

// SendLoop sends one beacon immediately, then one per period, indefinitely.
// The first send failure stops the loop and is returned to the caller; there
// is no retry beyond the unconditional periodic resend itself.
func (s *Sender) SendLoop(period time.Duration) error {
	s.log.Info().
		Str("target", s.dst.String()).
		Dur("period", period).
		Msg("Beacon loop started")

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	if _, err := s.SendOne(); err != nil {
		return err
	}
	for range ticker.C {
		if _, err := s.SendOne(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the sender's socket. A SendLoop sleeping until its next tick
// fails on the following send with an error wrapping net.ErrClosed.
func (s *Sender) Close() error {
	return s.conn.Close()
}
