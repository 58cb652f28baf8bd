package gatt

import "bytes"

// An Attribute is a single entry in the attribute database:
// a handle, a type, an opaque value, and the permissions that
// gate access to it.
type Attribute struct {
	Handle      uint16
	Type        UUID
	Value       []byte
	Permissions Permission
}

// A FoundByTypeValue is one result record of Find-By-Type-Value:
// the attribute handle where the match occurred, and the end
// handle of the service group that contains it.
type FoundByTypeValue struct {
	Handle         uint16
	GroupEndHandle uint16
}

// serviceGroup records the handle range and identity of one
// service, derived once when the service is appended.
type serviceGroup struct {
	start, end uint16
	primary    bool
	uuid       UUID
}

// A Database is the flat, ordered attribute table backing a
// GATT server. Handles are assigned densely starting at 1 in
// insertion order and never change once assigned.
type Database struct {
	attrs  []Attribute
	groups []serviceGroup
}

// NewDatabase returns a Database seeded with the standard GAP
// (0x1800) and GATT (0x1801) services, as every real GATT server
// exposes them ahead of application-specific services. name is
// exposed read-only via the GAP Device Name characteristic.
func NewDatabase(name string) *Database {
	db := &Database{}
	db.AppendService(&Service{
		UUID:    gapServiceUUID,
		Primary: true,
		Characteristics: []*Characteristic{
			{UUID: deviceNameUUID, Permissions: Read, Value: []byte(name)},
			{UUID: appearanceUUID, Permissions: Read, Value: genericComputerAppearance},
		},
	})
	db.AppendService(&Service{UUID: gattServiceUUID, Primary: true})
	return db
}

// AppendService assigns dense handles to s's declaration,
// characteristics, characteristic values, and descriptors, in
// the order spec.md §3 describes, and returns its handle range.
func (db *Database) AppendService(s *Service) (start, end uint16) {
	n := uint16(len(db.attrs) + 1)
	start = n

	declType := primaryServiceUUID
	if !s.Primary {
		declType = secondaryServiceUUID
	}
	db.attrs = append(db.attrs, Attribute{
		Handle:      n,
		Type:        declType,
		Value:       s.UUID.wireBytes(),
		Permissions: Read,
	})
	n++

	for _, c := range s.Characteristics {
		valueHandle := n + 1
		declValue := append([]byte{characteristicProperties(c.Permissions), byte(valueHandle), byte(valueHandle >> 8)}, c.UUID.wireBytes()...)
		db.attrs = append(db.attrs, Attribute{
			Handle:      n,
			Type:        characteristicUUID,
			Value:       declValue,
			Permissions: Read,
		})
		db.attrs = append(db.attrs, Attribute{
			Handle:      valueHandle,
			Type:        c.UUID,
			Value:       c.Value,
			Permissions: c.Permissions,
		})
		n += 2

		for _, d := range c.Descriptors {
			db.attrs = append(db.attrs, Attribute{
				Handle:      n,
				Type:        d.UUID,
				Value:       d.Value,
				Permissions: d.Permissions,
			})
			n++
		}
	}

	end = n - 1
	db.groups = append(db.groups, serviceGroup{start: start, end: end, primary: s.Primary, uuid: s.UUID})
	return start, end
}

// characteristicProperties derives the BLE characteristic
// properties byte from a permission set. Only the bits this
// server's supported requests can exercise are set.
func characteristicProperties(p Permission) byte {
	var props byte
	if p&(Read|ReadEncrypt|ReadAuthentication) != 0 {
		props |= 0x02 // Read
	}
	if p&(Write|WriteEncrypt|WriteAuthentication) != 0 {
		props |= 0x04 // Write Without Response
		props |= 0x08 // Write
	}
	return props
}

// attrIdx returns the index into attrs for handle h, or -1 if h
// is out of range. Handles are dense starting at 1, so this is
// an O(1) lookup rather than a search.
func (db *Database) attrIdx(h uint16) int {
	if h == 0 || int(h) > len(db.attrs) {
		return -1
	}
	return int(h) - 1
}

// At returns the attribute at handle h.
func (db *Database) At(h uint16) (Attribute, bool) {
	i := db.attrIdx(h)
	if i < 0 {
		return Attribute{}, false
	}
	return db.attrs[i], true
}

// Count returns the number of attributes currently in the
// database.
func (db *Database) Count() int {
	return len(db.attrs)
}

// subrange returns the attributes with handle in [start, end];
// it never panics for out-of-range bounds and may return nil.
func (db *Database) subrange(start, end uint16) []Attribute {
	if start == 0 || start > end {
		return nil
	}
	lo := db.attrIdx(start)
	if lo < 0 {
		return nil
	}
	hi := int(end) // end is inclusive; index of handle end+1 is the exclusive bound
	if hi > len(db.attrs) {
		hi = len(db.attrs)
	}
	if lo >= hi {
		return nil
	}
	return db.attrs[lo:hi]
}

// ReadByGroupType returns the services in [start, end] (fully
// contained by the range) whose primary flag matches primary,
// in ascending handle order.
func (db *Database) ReadByGroupType(start, end uint16, primary bool) []serviceGroup {
	var out []serviceGroup
	for _, g := range db.groups {
		if g.primary != primary {
			continue
		}
		if g.start >= start && g.end <= end {
			out = append(out, g)
		}
	}
	return out
}

// ReadByType returns the attributes in [start, end] whose type
// equals typ (canonical UUID equality), in ascending handle order.
func (db *Database) ReadByType(start, end uint16, typ UUID) []Attribute {
	var out []Attribute
	for _, a := range db.subrange(start, end) {
		if a.Type.Equal(typ) {
			out = append(out, a)
		}
	}
	return out
}

// FindInformation returns the attributes in [start, end], in
// ascending handle order.
func (db *Database) FindInformation(start, end uint16) []Attribute {
	return db.subrange(start, end)
}

// FindByTypeValue returns, for every attribute in [start, end]
// whose type equals the 16-bit UUID typ16 and whose value
// matches value octet-for-octet, the attribute's handle paired
// with the end handle of the service group containing it.
func (db *Database) FindByTypeValue(start, end uint16, typ16 UUID, value []byte) []FoundByTypeValue {
	var out []FoundByTypeValue
	for _, a := range db.subrange(start, end) {
		if !a.Type.Equal(typ16) {
			continue
		}
		if !bytes.Equal(a.Value, value) {
			continue
		}
		out = append(out, FoundByTypeValue{Handle: a.Handle, GroupEndHandle: db.groupEnd(a.Handle)})
	}
	return out
}

// groupEnd returns the end handle of the service group
// containing handle h, or h itself if h belongs to no group
// (should not happen for a well-formed database).
func (db *Database) groupEnd(h uint16) uint16 {
	for _, g := range db.groups {
		if h >= g.start && h <= g.end {
			return g.end
		}
	}
	return h
}

// Write replaces the value at handle h. It performs no
// permission check; that is the caller's responsibility.
func (db *Database) Write(h uint16, value []byte) bool {
	i := db.attrIdx(h)
	if i < 0 {
		return false
	}
	db.attrs[i].Value = value
	return true
}
