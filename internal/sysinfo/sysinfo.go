// Package sysinfo collects the local host identity logged at startup.
package sysinfo

import (
	"net"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// HostInfo identifies the machine originating or watching for beacons.
type HostInfo struct {
	Hostname  string
	IPAddress string
	Platform  string
}

// Collect gathers the local hostname, primary IPv4 address and platform name.
// Fields that cannot be determined are left empty rather than failing; the
// info is informational only.
func Collect() *HostInfo {
	info := &HostInfo{Platform: runtime.GOOS}

	info.Hostname, _ = os.Hostname()

	if hi, err := host.Info(); err == nil && hi.Platform != "" {
		info.Platform = hi.Platform
		if hi.PlatformVersion != "" {
			info.Platform += " " + hi.PlatformVersion
		}
	}

	info.IPAddress = primaryIPv4()
	return info
}

// primaryIPv4 returns the IPv4 address of the first up, non-loopback interface.
func primaryIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ipNet.IP.To4() != nil {
				return ipNet.IP.String()
			}
		}
	}

	return ""
}
