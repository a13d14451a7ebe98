package beacon

import "fmt"

// Beacon is one received service announcement.
type Beacon struct {
	// ServiceIP is the source address the announcement arrived from.
	ServiceIP string
	// ServicePort is the advertised application port, independent of the
	// UDP port the beacon was broadcast on.
	ServicePort uint16
	// ServiceName identifies the service. It is opaque bytes and not
	// necessarily valid text.
	ServiceName []byte
}

// String renders the beacon for CLI output.
func (b *Beacon) String() string {
	return fmt.Sprintf("service %q at %s:%d", b.ServiceName, b.ServiceIP, b.ServicePort)
}
