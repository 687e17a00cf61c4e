// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package registry maps a vendor tag to the drivers.Factory that builds
// a driver for it (spec.md §4.7). Grounded on the teacher's plugin-style
// factory maps (e.g. internal/config's section-kind registries): a plain
// map literal plus an alias table, no reflection or init-time
// registration magic.
package registry

import (
	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	"pathtrace.dev/pathtrace/internal/drivers/arista"
	"pathtrace.dev/pathtrace/internal/drivers/aruba"
	"pathtrace.dev/pathtrace/internal/drivers/ciscoasa"
	"pathtrace.dev/pathtrace/internal/drivers/ciscoftd"
	"pathtrace.dev/pathtrace/internal/drivers/ciscoios"
	"pathtrace.dev/pathtrace/internal/drivers/cisconxos"
	"pathtrace.dev/pathtrace/internal/drivers/junos"
	"pathtrace.dev/pathtrace/internal/drivers/paloalto"
	pterrors "pathtrace.dev/pathtrace/internal/errors"
	"pathtrace.dev/pathtrace/internal/model"
)

// factories maps a canonical vendor tag to its driver factory.
var factories = map[string]drivers.Factory{
	"cisco_ios":   ciscoios.New,
	"cisco_iosxe": ciscoios.New,
	"cisco_nxos":  cisconxos.New,
	"cisco_asa":   ciscoasa.New,
	"cisco_ftd":   ciscoftd.New,
	"arista_eos":  arista.New,
	"paloalto":    paloalto.New,
	"aruba":       aruba.New,
	"aruba_os":    aruba.New,
	"juniper_srx": junos.New,
}

// aliases maps a non-canonical vendor tag onto one already present in
// factories, per spec.md §4.7 ("paloalto and paloalto_panos ... resolve
// to the same factory").
var aliases = map[string]string{
	"paloalto_panos": "paloalto",
	"juniper_junos":  "juniper_srx",
}

// Build constructs a Driver for device using creds, resolving device's
// vendor tag through the alias table first. An unknown tag returns a
// descriptive KindConfiguration error.
func Build(device model.Device, creds credentials.Set) (drivers.Driver, error) {
	vendor := device.Vendor
	if canonical, ok := aliases[vendor]; ok {
		vendor = canonical
	}
	factory, ok := factories[vendor]
	if !ok {
		return nil, pterrors.Errorf(pterrors.KindConfiguration, "registry: unknown vendor tag %q", device.Vendor)
	}
	return factory(device, creds)
}

// Known reports whether vendor (or an alias of it) names a registered
// driver factory.
func Known(vendor string) bool {
	if canonical, ok := aliases[vendor]; ok {
		vendor = canonical
	}
	_, ok := factories[vendor]
	return ok
}
