package lib

import (
	"encoding/binary"
	"os"

	"github.com/google/uuid"

	"github.com/aregtech/areg-go/gen"
)

// RandomCookie assigns a process a random, process-wide Cookie at
// ServiceManager construction. A random 64-bit value is used instead of the
// original's pid+start-time derivation because container restarts make pid
// reuse common enough that a colliding cookie would be observed in practice.
func RandomCookie() gen.Cookie {
	id := uuid.New()
	return gen.Cookie(binary.BigEndian.Uint64(id[:8]))
}

func GetHostname() string {
	// Check if it's running in Kubernetes.
	// Kubernetes is not ideal for stateful services (especially regarding DNS management within a cluster),
	// which is why the pod's IP address has to be used instead of its hostname.
	if podIP := os.Getenv("POD_IP"); podIP != "" {
		return podIP
	}

	// Is it running inside docker? Then use the hostname.
	// Docker creates a .dockerenv file at the root of the directory tree inside the container
	if _, err := os.Stat("/.dockerenv"); err == nil {
		if hostname, err := os.Hostname(); err == nil {
			return hostname
		}
	}

	// Otherwise, use 'localhost' as a hostname
	return "localhost"
}
