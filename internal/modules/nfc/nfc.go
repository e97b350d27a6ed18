// Package nfc registers the nfc-test feature module.
package nfc

import "github.com/zot/ui-shell/internal/descriptor"

// Module and route identity.
const (
	ModuleName = "nfc-test"
	RouteName  = "nfc-test"
	Path       = "/nfc"
)

// Component references resolved by the rendering layer.
const (
	View        descriptor.ComponentRef = "NFC"
	MenuBar     descriptor.ComponentRef = "NFCMenuBar"
	DrawerItems descriptor.ComponentRef = "DrawerItems"
)

// Module returns the nfc-test descriptor.
func Module() descriptor.Descriptor {
	return descriptor.Descriptor{
		Name:   ModuleName,
		Drawer: &descriptor.DrawerEntry{Component: DrawerItems, Label: "NFC"},
		Routes: []descriptor.Route{
			{
				Name: RouteName,
				Path: Path,
				Slots: descriptor.Slots{
					descriptor.SlotDefault: View,
					descriptor.SlotMenuBar: MenuBar,
				},
			},
		},
	}
}
