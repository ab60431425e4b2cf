package commands

import (
	"fmt"
	"io"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/netops-tools/netaudit/pkg/models/domain"
	"github.com/netops-tools/netaudit/pkg/services/inventory"
	"github.com/netops-tools/netaudit/pkg/store/configsource"
)

type DevicesCmd struct {
	inventoryPath string
	out           io.Writer
}

func NewDevicesCmd(out io.Writer) *cobra.Command {
	dc := &DevicesCmd{out: out}
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the devices in the audit inventory",
		RunE:  dc.run,
	}

	cmd.Flags().StringVar(&dc.inventoryPath, "inventory", "",
		"Path to the device inventory file (default lists the simulation fleet)")

	return cmd
}

func (dc *DevicesCmd) run(cmd *cobra.Command, _ []string) error {
	var devices []domain.Device
	if dc.inventoryPath == "" {
		devices = configsource.NewSimulator().Devices()
	} else {
		registry, err := inventory.NewRegistry(dc.inventoryPath)
		if err != nil {
			return err
		}
		devices, err = registry.Devices(cmd.Context())
		if err != nil {
			return err
		}
	}

	tmpl := `{{range .}}{{.Hostname}} ({{.Type}}) port {{.Port}}
{{end}}`

	t, err := template.New("devices").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(dc.out, devices)
}
