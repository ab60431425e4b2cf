package domain

type DeviceType string

const (
	DeviceTypeCiscoIOS DeviceType = "cisco_ios"
	DeviceTypeJuniper  DeviceType = "juniper"
	DeviceTypeArista   DeviceType = "arista"
)

const DefaultSSHPort = 22

// Device describes one inventory entry for a router or switch.
type Device struct {
	Hostname string
	Username string
	Password string
	Type     DeviceType
	Port     int
}
