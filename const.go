package gatt

// This file holds well-known attribute type UUIDs from the
// Bluetooth GATT specification.

var (
	gapServiceUUID  = UUID16(0x1800)
	gattServiceUUID = UUID16(0x1801)

	primaryServiceUUID   = UUID16(0x2800)
	secondaryServiceUUID = UUID16(0x2801)
	includeUUID          = UUID16(0x2802)
	characteristicUUID   = UUID16(0x2803)

	deviceNameUUID = UUID16(0x2A00)
	appearanceUUID = UUID16(0x2A01)
)

// genericComputerAppearance is the GAP Appearance value for an
// unspecified "Generic Computer".
// https://developer.bluetooth.org/gatt/characteristics/Pages/CharacteristicViewer.aspx?u=org.bluetooth.characteristic.gap.appearance.xml
var genericComputerAppearance = []byte{0x80, 0x00}
