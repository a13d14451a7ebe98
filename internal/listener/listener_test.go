package listener

import (
	"errors"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svcbeacon/internal/beacon"
)

// newListener binds an ephemeral port so tests never collide.
func newListener(t *testing.T, serviceName string) *Listener {
	t.Helper()
	l, err := New([]byte(serviceName), 0, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

// newSender targets the listener over loopback.
func newSender(t *testing.T, l *Listener, servicePort uint16, serviceName string) *beacon.Sender {
	t.Helper()
	addr := fmt.Sprintf("127.0.0.1:%d", l.Port())
	s, err := beacon.NewSenderTo(servicePort, []byte(serviceName), addr, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWait_EndToEnd(t *testing.T) {
	l := newListener(t, "svc-A")
	s := newSender(t, l, 8080, "svc-A")

	go s.SendLoop(50 * time.Millisecond)

	b, err := l.Wait(2 * time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 8080, b.ServicePort)
	assert.Equal(t, []byte("svc-A"), b.ServiceName)
	assert.NotEmpty(t, b.ServiceIP)
}

func TestWait_FiltersOtherServices(t *testing.T) {
	l := newListener(t, "svc-Z")
	s := newSender(t, l, 8080, "svc-A")

	go s.SendLoop(20 * time.Millisecond)

	// Beacons arrive steadily, but none carry svc-Z.
	_, err := l.Wait(300 * time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrDeadlineExceeded), "got %v, want deadline exceeded", err)
}

func TestWait_TimeoutIsBounded(t *testing.T) {
	l := newListener(t, "svc-A")

	start := time.Now()
	_, err := l.Wait(10 * time.Millisecond)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrDeadlineExceeded), "got %v, want deadline exceeded", err)
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	assert.Less(t, elapsed, time.Second, "timeout overshot by far too much")
}

func TestWait_DeadlineBoundsWholeCall(t *testing.T) {
	l := newListener(t, "svc-Z")
	s := newSender(t, l, 8080, "svc-A")

	// A steady stream of non-matching beacons must not extend the wait:
	// the deadline is absolute, not per receive attempt.
	go s.SendLoop(5 * time.Millisecond)

	start := time.Now()
	_, err := l.Wait(100 * time.Millisecond)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrDeadlineExceeded), "got %v, want deadline exceeded", err)
	assert.Less(t, elapsed, time.Second)
}

func TestWait_DiscardsNonBeaconDatagrams(t *testing.T) {
	l := newListener(t, "svc-A")

	tx, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	defer tx.Close()

	dst := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: l.Port()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Garbage first, then a valid beacon.
		_, err := tx.WriteToUDP([]byte("Hello"), dst)
		assert.NoError(t, err)
		_, err = tx.WriteToUDP([]byte{0xEF, 0xBE, 0x00, 0x50, 's'}, dst)
		assert.NoError(t, err)
		_, err = tx.WriteToUDP(beacon.Encode(443, []byte("svc-A")), dst)
		assert.NoError(t, err)
	}()

	b, err := l.Wait(2 * time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 443, b.ServicePort)
	assert.Equal(t, []byte("svc-A"), b.ServiceName)
	<-done
}

func TestWait_BinaryServiceName(t *testing.T) {
	name := []byte{0x00, 0xFF, 0x10, 0x20}

	l, err := New(name, 0, zerolog.Nop())
	require.NoError(t, err)
	defer l.Close()

	addr := fmt.Sprintf("127.0.0.1:%d", l.Port())
	s, err := beacon.NewSenderTo(9090, name, addr, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.SendOne()
	require.NoError(t, err)

	b, err := l.Wait(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, name, b.ServiceName)
}

func TestWait_ReusableAfterTimeout(t *testing.T) {
	l := newListener(t, "svc-A")

	_, err := l.Wait(10 * time.Millisecond)
	require.Error(t, err)

	// A later Wait resets the deadline and can still match.
	s := newSender(t, l, 8080, "svc-A")
	_, err = s.SendOne()
	require.NoError(t, err)

	b, err := l.Wait(2 * time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 8080, b.ServicePort)
}

func TestNew_PortInUse(t *testing.T) {
	l := newListener(t, "svc-A")

	_, err := New([]byte("svc-A"), l.Port(), zerolog.Nop())
	require.Error(t, err)
}

func TestWait_ErrorAfterClose(t *testing.T) {
	l, err := New([]byte("svc-A"), 0, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = l.Wait(100 * time.Millisecond)
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrDeadlineExceeded), "close must not masquerade as timeout")
}
