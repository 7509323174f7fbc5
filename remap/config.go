package remap

import (
	"github.com/juju/errors"
)

type Config struct {
	// Represent the synthetic right button as a multitouch finger instead of BTN_RIGHT.
	// Left button stays pressed alongside.
	EmulateTouchpad bool
	// Finger position, the designated secondary-click spot of the touchpad.
	HotspotX int32
	HotspotY int32
	// Multitouch slot, should be unused by real fingers.
	Slot int32
	// Tracking id marking the new contact.
	TrackingID int32
}

func DefaultConfig() Config {
	return Config{
		EmulateTouchpad: true,
		HotspotX:        1320,
		HotspotY:        860,
		Slot:            255,
		TrackingID:      0,
	}
}

func (c Config) Validate() error {
	if c.Slot < 0 {
		return errors.NotValidf("remap slot=%d", c.Slot)
	}
	if c.TrackingID < 0 {
		return errors.NotValidf("remap tracking id=%d, negative lifts the contact", c.TrackingID)
	}
	return nil
}
