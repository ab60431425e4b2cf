package configsource

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/netops-tools/netaudit/pkg/models/domain"
)

const defaultDialTimeout = 10 * time.Second

// SSHSource fetches running configurations from live devices over SSH
// using password authentication from the inventory entry.
type SSHSource struct {
	timeout time.Duration
}

func NewSSHSource() *SSHSource {
	return &SSHSource{timeout: defaultDialTimeout}
}

func showCommand(deviceType domain.DeviceType) string {
	switch deviceType {
	case domain.DeviceTypeJuniper:
		return "show configuration"
	default:
		// cisco_ios, arista, and anything unrecognized
		return "show running-config"
	}
}

func (s *SSHSource) Fetch(ctx context.Context, device domain.Device) (string, error) {
	port := device.Port
	if port == 0 {
		port = domain.DefaultSSHPort
	}
	addr := net.JoinHostPort(device.Hostname, strconv.Itoa(port))

	clientConfig := &ssh.ClientConfig{
		User: device.Username,
		Auth: []ssh.AuthMethod{ssh.Password(device.Password)},
		// Lab devices regenerate host keys; verification is not enforced.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         s.timeout,
	}

	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", addr, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	client := ssh.NewClient(clientConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("open session on %s: %w", device.Hostname, err)
	}
	defer session.Close()

	out, err := session.Output(showCommand(device.Type))
	if err != nil {
		return "", fmt.Errorf("run %q on %s: %w", showCommand(device.Type), device.Hostname, err)
	}

	return string(out), nil
}
