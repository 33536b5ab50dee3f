package util

import (
	"os"
	"strings"
)

// GetMachineID returns MACHINE_ID, /etc/machine-id or the host name, in that order.
func GetMachineID() string {
	machineID := os.Getenv("MACHINE_ID")
	if machineID != "" {
		return machineID
	}
	const machineIDPath = "/etc/machine-id"
	data, err := os.ReadFile(machineIDPath)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown-machine-id"
}
