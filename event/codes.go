package event

import (
	evdev "github.com/holoplot/go-evdev"
)

// Event classes, see linux/input-event-codes.h
const (
	EvSyn = uint16(evdev.EV_SYN)
	EvKey = uint16(evdev.EV_KEY)
	EvMsc = uint16(evdev.EV_MSC)
	EvAbs = uint16(evdev.EV_ABS)
)

const (
	SynReport = uint16(evdev.SYN_REPORT)
	MscScan   = uint16(evdev.MSC_SCAN)

	KeyLeftAlt  = uint16(evdev.KEY_LEFTALT)
	KeyLeftMeta = uint16(evdev.KEY_LEFTMETA)
	BtnLeft     = uint16(evdev.BTN_LEFT)
	BtnRight    = uint16(evdev.BTN_RIGHT)

	AbsMTSlot       = uint16(evdev.ABS_MT_SLOT)
	AbsMTTrackingID = uint16(evdev.ABS_MT_TRACKING_ID)
	AbsMTPositionX  = uint16(evdev.ABS_MT_POSITION_X)
	AbsMTPositionY  = uint16(evdev.ABS_MT_POSITION_Y)
)

// TrackingIDNone lifts a multitouch contact.
const TrackingIDNone int32 = -1

// CodeName is for logs only.
func CodeName(class, code uint16) string {
	return evdev.CodeName(evdev.EvType(class), evdev.EvCode(code))
}

func ClassName(class uint16) string {
	return evdev.TypeName(evdev.EvType(class))
}
