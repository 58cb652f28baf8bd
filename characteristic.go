package gatt

// A Characteristic is a BLE GATT characteristic: a type, a
// value, the descriptors attached to it, and the permissions
// that gate read/write access to its value. Unlike a dynamic
// read/write callback model, the value backing a characteristic
// lives directly in the attribute database; Write-Request and
// Write-Command both mutate it in place via Database.Write.
type Characteristic struct {
	UUID        UUID
	Value       []byte
	Permissions Permission
	Descriptors []*Descriptor
}

// AddDescriptor adds and returns a new descriptor with UUID u.
func (c *Characteristic) AddDescriptor(u UUID) *Descriptor {
	d := &Descriptor{UUID: u}
	c.Descriptors = append(c.Descriptors, d)
	return d
}

// SetValue sets the characteristic's static value. SetValue
// must be called before the owning service is added to a Database;
// after that, only Write-Request/Write-Command may change it.
func (c *Characteristic) SetValue(v []byte) *Characteristic {
	c.Value = v
	return c
}

// SetPermissions sets the characteristic's access permissions.
func (c *Characteristic) SetPermissions(p Permission) *Characteristic {
	c.Permissions = p
	return c
}
