// Package router implements the adapter between the service manager and
// an external router broker process: the router.init config format, the
// TCP client, and the wire framing shared with the reference broker in
// package router/broker.
package router

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/aregtech/areg-go/gen"
)

const (
	defaultAddress = "127.0.0.1"
	defaultPort    = uint16(8181)
)

// ParseConfig parses the router.init key=value grammar from r. '#' starts a
// comment that runs to end of line; blank lines are ignored; unknown keys
// are ignored.
func ParseConfig(r *bufio.Scanner) (gen.Config, error) {
	cfg := gen.Config{
		Address: defaultAddress,
		Port:    defaultPort,
	}

	for r.Scan() {
		line := r.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return gen.Config{}, gen.ErrConfigMalformed
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "connection.type":
			cfg.ConnectionType = value
		case "connection.enable.tcpip":
			cfg.Enabled = value == "true"
		case "connection.name.tcpip":
			cfg.ConnectionName = value
		case "connection.address.tcpip":
			cfg.Address = value
		case "connection.port.tcpip":
			port, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return gen.Config{}, gen.ErrConfigMalformed
			}
			cfg.Port = uint16(port)
		default:
			// unknown keys are ignored
		}
	}
	if err := r.Err(); err != nil {
		return gen.Config{}, err
	}

	if cfg.ConnectionType == "" {
		cfg.Enabled = false
	}
	if cfg.ConnectionType != "" && cfg.ConnectionType != "tcpip" {
		return gen.Config{}, gen.ErrConfigUnknownType
	}
	return cfg, nil
}

// LoadConfig opens path and parses it as a router.init file.
func LoadConfig(path string) (gen.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return gen.Config{}, err
	}
	defer f.Close()
	return ParseConfig(bufio.NewScanner(f))
}
