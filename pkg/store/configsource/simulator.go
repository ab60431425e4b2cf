package configsource

import (
	"context"
	"fmt"
	"sort"

	"github.com/netops-tools/netaudit/pkg/models/domain"
)

// Simulator serves canned running configurations keyed by hostname, for
// demo runs and tests without reachable devices. The built-in fixtures
// mirror a typical lab: Router1 still allows telnet and skips password
// encryption, Switch1 is ssh-only but misses NTP and logging hardening.
type Simulator struct {
	configs map[string]string
}

func NewSimulator() *Simulator {
	return &Simulator{configs: sampleConfigs()}
}

// NewSimulatorWithConfigs builds a simulator over caller-supplied
// fixtures, replacing the built-in ones.
func NewSimulatorWithConfigs(configs map[string]string) *Simulator {
	return &Simulator{configs: configs}
}

// Devices lists the hostnames the simulator can answer for, sorted so
// audit runs over the fixture fleet are deterministic.
func (s *Simulator) Devices() []domain.Device {
	devices := make([]domain.Device, 0, len(s.configs))
	for hostname := range s.configs {
		devices = append(devices, domain.Device{
			Hostname: hostname,
			Username: "admin",
			Type:     domain.DeviceTypeCiscoIOS,
			Port:     domain.DefaultSSHPort,
		})
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Hostname < devices[j].Hostname
	})
	return devices
}

func (s *Simulator) Fetch(_ context.Context, device domain.Device) (string, error) {
	config, ok := s.configs[device.Hostname]
	if !ok {
		return "", fmt.Errorf("no simulated configuration for %s", device.Hostname)
	}
	return config, nil
}

func sampleConfigs() map[string]string {
	return map[string]string{
		"Router1": routerConfig,
		"Switch1": switchConfig,
	}
}

const routerConfig = `version 15.1
service timestamps debug datetime msec
service timestamps log datetime msec
no service password-encryption
!
hostname Router1
!
enable secret 5 $1$mERr$hx5rVt7rPNoS4wqbXKX7m0
!
no aaa new-model
ip source-route
ip forward-protocol nd
!
no ip http server
ip http access-class 23
ip http secure-server
!
interface FastEthernet0/0
 ip address 192.168.1.1 255.255.255.0
 duplex auto
 speed auto
!
interface FastEthernet0/1
 ip address 10.0.0.1 255.255.255.252
 duplex auto
 speed auto
!
router ospf 1
 log-adjacency-changes
 network 192.168.1.0 0.0.0.255 area 0
 network 10.0.0.0 0.0.0.3 area 0
!
access-list 1 permit 192.168.1.0 0.0.0.255
access-list 23 permit 192.168.1.100
!
line con 0
 exec-timeout 0 0
 privilege level 15
 logging synchronous
line aux 0
 exec-timeout 0 0
 privilege level 15
 logging synchronous
line vty 0 4
 access-class 23 in
 privilege level 15
 logging synchronous
 transport input telnet ssh
!
end
`

const switchConfig = `version 12.2
no service pad
service timestamps debug datetime msec
service timestamps log datetime msec
no service password-encryption
!
hostname Switch1
!
enable secret 5 $1$mERr$hx5rVt7rPNoS4wqbXKX7m0
!
username admin privilege 15 secret 5 $1$mERr$hx5rVt7rPNoS4wqbXKX7m0
aaa new-model
!
ip subnet-zero
!
spanning-tree mode pvst
spanning-tree extend system-id
!
interface FastEthernet0/1
 switchport mode access
 switchport access vlan 10
!
interface FastEthernet0/24
 switchport mode trunk
 switchport trunk allowed vlan 10,20,30
!
interface Vlan1
 ip address 192.168.1.10 255.255.255.0
!
ip default-gateway 192.168.1.1
ip http server
ip http secure-server
!
line con 0
line vty 0 4
 privilege level 15
 login local
 transport input ssh
line vty 5 15
 privilege level 15
 login local
 transport input ssh
!
end
`
