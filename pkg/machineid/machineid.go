// Package machineid derives the identifier that binds an activation to one
// physical machine. The identifier is a binding key, not a secret: it only
// needs to be stable across runs on the same machine and unlikely to
// collide between two different machines.
package machineid

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"os"
	"runtime"
	"strings"
)

// Current returns the fingerprint of this machine. Inputs that can't be
// read are skipped rather than failing, which weakens but never breaks
// determinism.
func Current() string {
	var parts []string
	if host, err := os.Hostname(); err == nil && host != "" {
		parts = append(parts, host)
	}
	parts = append(parts, runtime.GOARCH)
	if mac := hardwareAddr(); mac != "" {
		parts = append(parts, mac)
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

// hardwareAddr returns the MAC of the first non-loopback interface that has
// one, or "" if there is no such interface.
func hardwareAddr() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr.String()
	}
	return ""
}
