package gatt

// A Descriptor is a BLE GATT characteristic descriptor: a type,
// a value, and the permissions gating access to it.
type Descriptor struct {
	UUID        UUID
	Value       []byte
	Permissions Permission
}

// SetValue sets the descriptor's static value.
func (d *Descriptor) SetValue(v []byte) *Descriptor {
	d.Value = v
	return d
}

// SetPermissions sets the descriptor's access permissions.
func (d *Descriptor) SetPermissions(p Permission) *Descriptor {
	d.Permissions = p
	return d
}
