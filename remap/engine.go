// Package remap rewrites the Alt+Super+LeftButton chord so the compositor
// sees Super+RightButton (a resize/drag it understands) instead.
//
// Three key sets drive every decision:
// actual - physically held, from observed press/release;
// desired - what the output should look like, actual with the override applied;
// simulated - what was forwarded or synthesized so far.
// After each event simulated equals desired.
package remap

import (
	"github.com/altdrag/altdrag/event"
	"github.com/altdrag/altdrag/log2"
	"github.com/altdrag/altdrag/muxer"
	"github.com/juju/errors"
)

var (
	KeyLeftAlt  = event.Key{Tag: event.TagKeyboard, Code: event.KeyLeftAlt}
	KeyLeftMeta = event.Key{Tag: event.TagKeyboard, Code: event.KeyLeftMeta}
	BtnLeft     = event.Key{Tag: event.TagMouse, Code: event.BtnLeft}
	BtnRight    = event.Key{Tag: event.TagMouse, Code: event.BtnRight}
)

type Emitter interface {
	WriteOutputEvent(event.Event) error
}

type Source interface {
	ReadInputEvent() (event.Event, error)
}

// compile-time interface compliance test
var _ Emitter = (*muxer.Server)(nil)
var _ Source = (*muxer.Server)(nil)

type Engine struct {
	Log    *log2.Log
	config Config
	out    Emitter

	actual    KeySet
	desired   KeySet
	simulated KeySet
}

func New(log *log2.Log, config Config, out Emitter) *Engine {
	return &Engine{
		Log:       log,
		config:    config,
		out:       out,
		actual:    NewKeySet(),
		desired:   NewKeySet(),
		simulated: NewKeySet(),
	}
}

// Run processes events until the source stops. Stop is not an error.
func (self *Engine) Run(src Source) error {
	for {
		e, err := src.ReadInputEvent()
		if errors.Cause(err) == muxer.ErrStopped {
			self.Log.Debugf("engine stopped simulated=%v", self.simulated.Sorted())
			return nil
		}
		if err != nil {
			return errors.Annotate(err, "engine read")
		}
		if err = self.Process(e); err != nil {
			return errors.Annotatef(err, "engine process %s", e.String())
		}
	}
}

// Process is one step of the loop: update state from e, forward or absorb e,
// then synthesize whatever brings simulated to desired.
func (self *Engine) Process(e event.Event) error {
	// remap artifact of the host key layer, never forwarded
	if e.IsScan() {
		return nil
	}

	switch {
	case e.IsPress():
		self.actual.Add(e.Key())
	case e.IsRelease():
		self.actual.Remove(e.Key())
	}

	self.desired.Assign(self.actual)
	// level-triggered: recomputed from actual every time
	if self.actual.HasAll(KeyLeftAlt, KeyLeftMeta, BtnLeft) {
		if !self.config.EmulateTouchpad {
			self.desired.Remove(BtnLeft)
		}
		self.desired.Add(BtnRight)
		self.desired.Remove(KeyLeftAlt)
	}

	// Release of a key still desired must look held; press of an undesired key is absorbed.
	// A release whose press was absorbed is still forwarded.
	pass := true
	switch {
	case e.IsRelease() && self.desired.Has(e.Key()):
		pass = false
	case e.IsPress() && !self.desired.Has(e.Key()):
		pass = false
	}
	if pass {
		switch {
		case e.IsPress():
			self.simulated.Add(e.Key())
		case e.IsRelease():
			self.simulated.Remove(e.Key())
		}
		if err := self.out.WriteOutputEvent(e); err != nil {
			return errors.Trace(err)
		}
	} else {
		self.Log.Debugf("engine suppressed %s", e.String())
	}

	for _, k := range self.desired.Minus(self.simulated) {
		if err := self.press(k, e.Time); err != nil {
			return errors.Trace(err)
		}
		self.simulated.Add(k)
	}
	for _, k := range self.simulated.Minus(self.desired) {
		if err := self.release(k, e.Time); err != nil {
			return errors.Trace(err)
		}
		self.simulated.Remove(k)
	}
	return nil
}

func (self *Engine) Actual() KeySet    { return self.actual.Clone() }
func (self *Engine) Desired() KeySet   { return self.desired.Clone() }
func (self *Engine) Simulated() KeySet { return self.simulated.Clone() }

func (self *Engine) press(k event.Key, tv event.Timeval) error {
	if k == BtnRight && self.config.EmulateTouchpad {
		// touchpad right-click drag: one finger down at the hotspot,
		// multitouch protocol B, see kernel Documentation/input/multi-touch-protocol.rst
		self.Log.Debugf("engine synthetic finger down %s", k)
		return self.emit(
			event.NewAbs(k.Tag, tv, event.AbsMTSlot, self.config.Slot),
			event.NewAbs(k.Tag, tv, event.AbsMTTrackingID, self.config.TrackingID),
			event.NewAbs(k.Tag, tv, event.AbsMTPositionX, self.config.HotspotX),
			event.NewAbs(k.Tag, tv, event.AbsMTPositionY, self.config.HotspotY),
		)
	}
	self.Log.Debugf("engine synthetic press %s", k)
	return self.emit(event.NewKey(k.Tag, tv, k.Code, event.KeyPress))
}

func (self *Engine) release(k event.Key, tv event.Timeval) error {
	if k == BtnRight && self.config.EmulateTouchpad {
		self.Log.Debugf("engine synthetic finger up %s", k)
		return self.emit(
			event.NewAbs(k.Tag, tv, event.AbsMTSlot, self.config.Slot),
			event.NewAbs(k.Tag, tv, event.AbsMTTrackingID, event.TrackingIDNone),
		)
	}
	self.Log.Debugf("engine synthetic release %s", k)
	return self.emit(event.NewKey(k.Tag, tv, k.Code, event.KeyRelease))
}

func (self *Engine) emit(events ...event.Event) error {
	for _, e := range events {
		if err := self.out.WriteOutputEvent(e); err != nil {
			return err
		}
	}
	return nil
}
