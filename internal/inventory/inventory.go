// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package inventory loads the device inventory document (spec.md §4.2,
// §6) and answers the three resolver queries the orchestrator needs:
// by_hostname, by_management_ip, and by_subnet (longest-prefix match).
// Grounded on
// original_source/services/pathtrace-api/pathtracer/discovery.py,
// restructured into the teacher's load-returns-(value,error) idiom in
// place of the original's mutating constructor.
package inventory

import (
	"os"

	"gopkg.in/yaml.v3"

	pterrors "pathtrace.dev/pathtrace/internal/errors"
	"pathtrace.dev/pathtrace/internal/iputil"
	"pathtrace.dev/pathtrace/internal/model"
)

// Warning describes a non-fatal condition noticed while loading the
// inventory: a duplicate management IP or an overlapping same-site
// subnet. Neither blocks the load; both are worth surfacing to whoever
// curates the inventory document.
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

// Inventory is the read-only, in-memory device set built from one
// inventory document. Once built it is safe for concurrent read access
// by any number of in-flight traces (spec.md §5).
type Inventory struct {
	devices    []model.Device
	bySubnet   map[string][]model.Device
	byHostname map[string]model.Device
	warnings   []Warning
}

// document is the on-disk shape of an inventory file (spec.md §6).
type document struct {
	Devices []deviceDoc `yaml:"devices"`
}

type deviceDoc struct {
	Hostname             string            `yaml:"hostname"`
	ManagementIP         string            `yaml:"management_ip"`
	Vendor               string            `yaml:"vendor"`
	Site                 string            `yaml:"site"`
	DeviceType           string            `yaml:"device_type"`
	CredentialsRef       string            `yaml:"credentials_ref"`
	LogicalContexts      []string          `yaml:"logical_contexts"`
	DefaultVRF           string            `yaml:"default_vrf"`
	DefaultVirtualRouter string            `yaml:"default_virtual_router"`
	Subnets              []string          `yaml:"subnets"`
	Metadata             map[string]string `yaml:"metadata"`
}

func (d deviceDoc) toDevice() model.Device {
	defaultContext := d.DefaultVRF
	if defaultContext == "" {
		defaultContext = d.DefaultVirtualRouter
	}
	if defaultContext == "" {
		defaultContext = "global"
	}

	contexts := d.LogicalContexts
	if len(contexts) == 0 {
		contexts = []string{defaultContext}
	}

	kind := model.DeviceKind(d.DeviceType)
	switch kind {
	case model.DeviceKindRouter, model.DeviceKindFirewall, model.DeviceKindL3Switch:
	default:
		kind = model.DeviceKindUnknown
	}

	credentialsRef := d.CredentialsRef
	if credentialsRef == "" {
		credentialsRef = "default"
	}

	return model.Device{
		Hostname:        d.Hostname,
		ManagementIP:    d.ManagementIP,
		Vendor:          d.Vendor,
		Kind:            kind,
		Site:            d.Site,
		CredentialsRef:  credentialsRef,
		LogicalContexts: contexts,
		DefaultContext:  defaultContext,
		Subnets:         d.Subnets,
		Metadata:        d.Metadata,
	}
}

// LoadFile parses a YAML inventory document (spec.md §6) and builds the
// hostname and subnet indices, collecting any load-time warnings.
func LoadFile(path string) (*Inventory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pterrors.Wrapf(err, pterrors.KindConfiguration, "inventory: read %s", path)
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, pterrors.Wrapf(err, pterrors.KindConfiguration, "inventory: parse %s", path)
	}

	inv := &Inventory{
		bySubnet:   map[string][]model.Device{},
		byHostname: map[string]model.Device{},
	}
	for _, dd := range doc.Devices {
		inv.add(dd.toDevice())
	}
	return inv, nil
}

// add appends device to the inventory, updating both indices and
// recording a Warning for a duplicate management IP or a same-site
// subnet overlap, matching DeviceInventory.add_device's checks.
func (inv *Inventory) add(device model.Device) {
	for _, existing := range inv.devices {
		if device.ManagementIP != "" && existing.ManagementIP == device.ManagementIP && existing.Hostname != device.Hostname {
			inv.warnings = append(inv.warnings, Warning{Message: "duplicate management IP " + device.ManagementIP + ": " + existing.Hostname + " and " + device.Hostname})
		}
	}

	inv.devices = append(inv.devices, device)
	inv.byHostname[device.Hostname] = device

	for _, subnet := range device.Subnets {
		existingAtSubnet := inv.bySubnet[subnet]
		for _, existing := range existingAtSubnet {
			if existing.Site != "" && device.Site != "" && existing.Site == device.Site {
				inv.warnings = append(inv.warnings, Warning{Message: "overlapping subnet " + subnet + " at site " + device.Site + ": " + existing.Hostname + " and " + device.Hostname})
			}
		}
		inv.bySubnet[subnet] = append(inv.bySubnet[subnet], device)
	}
}

// Warnings returns any warnings generated while loading the inventory.
func (inv *Inventory) Warnings() []Warning {
	return inv.warnings
}

// All returns every device in the inventory, in load order.
func (inv *Inventory) All() []model.Device {
	return inv.devices
}

// ByHostname resolves a device by its exact hostname (spec.md §4.2).
func (inv *Inventory) ByHostname(name string) (model.Device, bool) {
	d, ok := inv.byHostname[name]
	return d, ok
}

// ByManagementIP returns every device whose management IP equals ip.
func (inv *Inventory) ByManagementIP(ip string) []model.Device {
	var matches []model.Device
	for _, d := range inv.devices {
		if d.ManagementIP == ip {
			matches = append(matches, d)
		}
	}
	return matches
}

// BySubnet resolves ip against every device's owned subnets, returning
// only the devices whose containing subnet has the maximum prefix
// length among all subnets that contain ip (spec.md §4.2).
func (inv *Inventory) BySubnet(ip string) []model.Device {
	best := -1
	var matches []model.Device
	for subnet, devices := range inv.bySubnet {
		if !iputil.Contains(subnet, ip) {
			continue
		}
		bits := iputil.PrefixLength(subnet)
		switch {
		case bits > best:
			best = bits
			matches = append([]model.Device{}, devices...)
		case bits == best:
			matches = append(matches, devices...)
		}
	}
	return matches
}

// Resolve applies the orchestrator's standard resolution order
// (spec.md §4.6 step 2/10): by management IP first, falling back to
// by-subnet longest-prefix match when that yields nothing.
func (inv *Inventory) Resolve(ip string) []model.Device {
	if matches := inv.ByManagementIP(ip); len(matches) > 0 {
		return matches
	}
	return inv.BySubnet(ip)
}
