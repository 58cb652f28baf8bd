package gatt

// A Service is a BLE GATT service: a UUID, a primary/secondary
// flag, and the characteristics it groups. Calls to
// AddCharacteristic must occur before the service is appended to a
// Database.
type Service struct {
	UUID            UUID
	Primary         bool
	Characteristics []*Characteristic
}

// NewService returns a new primary service with the given UUID.
func NewService(u UUID) *Service {
	return &Service{UUID: u, Primary: true}
}

// AddCharacteristic adds and returns a new characteristic with
// UUID u. AddCharacteristic panics if the service already
// contains a characteristic with the same UUID.
func (s *Service) AddCharacteristic(u UUID) *Characteristic {
	for _, c := range s.Characteristics {
		if c.UUID.Equal(u) {
			panic("gatt: service already contains a characteristic with uuid " + u.String())
		}
	}
	c := &Characteristic{UUID: u}
	s.Characteristics = append(s.Characteristics, c)
	return c
}
