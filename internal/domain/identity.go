package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DeviceID is the MAC-style hardware address a registered identity's
// beacon advertises.
type DeviceID string

var deviceIDPattern = regexp.MustCompile(`^[0-9A-F]{2}(:[0-9A-F]{2}){5}$`)

// NormalizeDeviceID trims and upper-cases a raw identifier so that
// discovery results and registry entries compare equal regardless of
// the casing the source reports.
func NormalizeDeviceID(raw string) DeviceID {
	return DeviceID(strings.ToUpper(strings.TrimSpace(raw)))
}

func (id DeviceID) Validate() error {
	if !deviceIDPattern.MatchString(string(id)) {
		return fmt.Errorf("device id %q is not a MAC-style address", string(id))
	}

	return nil
}

type Identity struct {
	ID           DeviceID
	DisplayName  string
	RegisteredAt time.Time
}

func (i Identity) Validate() error {
	if err := i.ID.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.DisplayName) == "" {
		return fmt.Errorf("display name is required")
	}

	return nil
}
