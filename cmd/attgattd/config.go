package main

import (
	"encoding/hex"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/attgatt/gatt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// serviceFile is the on-disk shape of an attgattd service
// definition: a device name plus the services/characteristics/
// descriptors to seed the database with.
type serviceFile struct {
	Name     string          `json:"name"`
	Services []serviceConfig `json:"services"`
}

type serviceConfig struct {
	UUID            string                 `json:"uuid"`
	Primary         *bool                  `json:"primary"`
	Characteristics []characteristicConfig `json:"characteristics"`
}

type characteristicConfig struct {
	UUID        string             `json:"uuid"`
	Value       string             `json:"value"` // hex-encoded
	Permissions []string           `json:"permissions"`
	Descriptors []descriptorConfig `json:"descriptors"`
}

type descriptorConfig struct {
	UUID        string   `json:"uuid"`
	Value       string   `json:"value"`
	Permissions []string `json:"permissions"`
}

var permissionBits = map[string]gatt.Permission{
	"read":                 gatt.Read,
	"write":                gatt.Write,
	"read-encrypt":         gatt.ReadEncrypt,
	"write-encrypt":        gatt.WriteEncrypt,
	"read-authentication":  gatt.ReadAuthentication,
	"write-authentication": gatt.WriteAuthentication,
}

func parsePermissions(names []string) (gatt.Permission, error) {
	var p gatt.Permission
	for _, name := range names {
		bit, ok := permissionBits[name]
		if !ok {
			return 0, fmt.Errorf("attgattd: unknown permission %q", name)
		}
		p |= bit
	}
	return p, nil
}

// loadServiceFile reads path as JSON and builds a Database from it,
// seeded ahead of time with the standard GAP/GATT services.
func loadServiceFile(path string) (*gatt.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "attgattd: open %s", path)
	}
	defer f.Close()

	var cfg serviceFile
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "attgattd: decode %s", path)
	}

	name := cfg.Name
	if name == "" {
		name = "attgattd"
	}
	db := gatt.NewDatabase(name)

	for _, sc := range cfg.Services {
		u, err := gatt.ParseUUID(sc.UUID)
		if err != nil {
			return nil, errors.Wrapf(err, "attgattd: service uuid %q", sc.UUID)
		}
		svc := gatt.NewService(u)
		svc.Primary = sc.Primary == nil || *sc.Primary

		for _, cc := range sc.Characteristics {
			cu, err := gatt.ParseUUID(cc.UUID)
			if err != nil {
				return nil, errors.Wrapf(err, "attgattd: characteristic uuid %q", cc.UUID)
			}
			value, err := hex.DecodeString(cc.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "attgattd: characteristic value %q", cc.Value)
			}
			perms, err := parsePermissions(cc.Permissions)
			if err != nil {
				return nil, err
			}
			ch := svc.AddCharacteristic(cu)
			ch.SetValue(value).SetPermissions(perms)

			for _, dc := range cc.Descriptors {
				du, err := gatt.ParseUUID(dc.UUID)
				if err != nil {
					return nil, errors.Wrapf(err, "attgattd: descriptor uuid %q", dc.UUID)
				}
				dvalue, err := hex.DecodeString(dc.Value)
				if err != nil {
					return nil, errors.Wrapf(err, "attgattd: descriptor value %q", dc.Value)
				}
				dperms, err := parsePermissions(dc.Permissions)
				if err != nil {
					return nil, err
				}
				d := ch.AddDescriptor(du)
				d.SetValue(dvalue).SetPermissions(dperms)
			}
		}
		db.AppendService(svc)
	}

	return db, nil
}
