package bus

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_slatecast._tcp"

// Advertise announces the hub on the local network so other machines can
// `-join auto`. The returned server must be shut down on exit.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("bus: hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"", // domain, defaults to .local
		"", // hostname, defaults to the OS hostname
		port,
		nil, // auto-detect IPs
		[]string{"SlateCast"},
	)
	if err != nil {
		return nil, fmt.Errorf("bus: create mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("bus: start mdns server: %w", err)
	}
	return server, nil
}

// Discover browses for an advertised hub and returns the first address found.
func Discover(timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)

	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			select {
			case found <- fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port):
			default:
			}
		}
	}()

	if err := mdns.Lookup(serviceType, entries); err != nil {
		return "", fmt.Errorf("bus: mdns lookup: %w", err)
	}
	close(entries)

	select {
	case addr := <-found:
		return addr, nil
	case <-time.After(timeout):
		return "", errors.New("bus: no hub found on the local network")
	}
}
