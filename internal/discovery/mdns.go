// Package discovery advertises the annotation server on the local
// network over mDNS.
package discovery

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_annotator._tcp"

// Advertiser answers mDNS queries until Shutdown.
type Advertiser struct {
	server  *mdns.Server
	service *mdns.MDNSService
}

// Service describes the server. Empty host and nil ips are filled in from
// the OS.
func Service(instance, host string, port int, ips []net.IP) (*mdns.MDNSService, error) {
	service, err := mdns.NewMDNSService(instance, ServiceType, "", host, port, ips, []string{"path=/ws/session"})
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	return service, nil
}

func Advertise(instance string, port int) (*Advertiser, error) {
	service, err := Service(instance, "", port, nil)
	if err != nil {
		return nil, err
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	slog.Info("advertising over mDNS", "instance", instance, "service", ServiceType, "port", port)
	return &Advertiser{server: server, service: service}, nil
}

func (a *Advertiser) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}
