package inventory

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/netops-tools/netaudit/pkg/models/domain"
)

// Registry exposes the device inventory read from an ini profile file.
// Each section is one device, keyed by hostname:
//
//	[Router1]
//	username = admin
//	password = secret
//	device_type = cisco_ios
//	port = 22
type Registry interface {
	Devices(ctx context.Context) ([]domain.Device, error)
	Get(ctx context.Context, hostname string) (domain.Device, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory file: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) Devices(_ context.Context) ([]domain.Device, error) {
	var devices []domain.Device
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		devices = append(devices, deviceFromSection(section))
	}
	return devices, nil
}

func (r *iniRegistry) Get(_ context.Context, hostname string) (domain.Device, error) {
	section, err := r.cfg.GetSection(hostname)
	if err != nil {
		return domain.Device{}, fmt.Errorf("device %s not found in inventory", hostname)
	}
	return deviceFromSection(section), nil
}

func deviceFromSection(section *ini.Section) domain.Device {
	deviceType := domain.DeviceType(section.Key("device_type").String())
	if deviceType == "" {
		deviceType = domain.DeviceTypeCiscoIOS
	}
	return domain.Device{
		Hostname: section.Name(),
		Username: section.Key("username").String(),
		Password: section.Key("password").String(),
		Type:     deviceType,
		Port:     section.Key("port").MustInt(domain.DefaultSSHPort),
	}
}
