package remap

import (
	"fmt"
	"testing"

	"github.com/altdrag/altdrag/event"
	"github.com/altdrag/altdrag/helpers"
	"github.com/altdrag/altdrag/log2"
	"github.com/altdrag/altdrag/muxer"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOut struct {
	events []event.Event
	err    error
}

func (self *fakeOut) WriteOutputEvent(e event.Event) error {
	if self.err != nil {
		return self.err
	}
	self.events = append(self.events, e)
	return nil
}

func (self *fakeOut) take() []event.Event {
	es := self.events
	self.events = nil
	return es
}

type fakeSource struct {
	events []event.Event
	err    error
}

func (self *fakeSource) ReadInputEvent() (event.Event, error) {
	if len(self.events) == 0 {
		return event.Event{}, self.err
	}
	e := self.events[0]
	self.events = self.events[1:]
	return e, nil
}

var tv0 = event.Timeval{Sec: 1700000000, Usec: 42}

func press(k Key) event.Event   { return event.NewKey(k.Tag, tv0, k.Code, event.KeyPress) }
func release(k Key) event.Event { return event.NewKey(k.Tag, tv0, k.Code, event.KeyRelease) }

type Key = event.Key

func newTestEngine(t testing.TB, emulateTouchpad bool) (*Engine, *fakeOut) {
	cfg := DefaultConfig()
	cfg.EmulateTouchpad = emulateTouchpad
	out := &fakeOut{}
	return New(log2.NewTest(t, log2.LDebug), cfg, out), out
}

func fingerDown(c Config) []event.Event {
	return []event.Event{
		event.NewAbs(event.TagMouse, tv0, event.AbsMTSlot, c.Slot),
		event.NewAbs(event.TagMouse, tv0, event.AbsMTTrackingID, c.TrackingID),
		event.NewAbs(event.TagMouse, tv0, event.AbsMTPositionX, c.HotspotX),
		event.NewAbs(event.TagMouse, tv0, event.AbsMTPositionY, c.HotspotY),
	}
}

func fingerUp(c Config) []event.Event {
	return []event.Event{
		event.NewAbs(event.TagMouse, tv0, event.AbsMTSlot, c.Slot),
		event.NewAbs(event.TagMouse, tv0, event.AbsMTTrackingID, event.TrackingIDNone),
	}
}

func TestPassThrough(t *testing.T) {
	t.Parallel()
	e, out := newTestEngine(t, false)

	require.NoError(t, e.Process(press(KeyLeftAlt)))
	assert.Equal(t, []event.Event{press(KeyLeftAlt)}, out.take())
	assert.Equal(t, NewKeySet(KeyLeftAlt), e.Actual())
	assert.Equal(t, NewKeySet(KeyLeftAlt), e.Desired())
	assert.Equal(t, NewKeySet(KeyLeftAlt), e.Simulated())

	// non-key events are forwarded untouched
	for _, x := range []event.Event{
		event.NewSync(event.TagKeyboard, tv0),
		event.NewKey(event.TagKeyboard, tv0, event.KeyLeftAlt, event.KeyAutorepeat),
		event.NewAbs(event.TagMouse, tv0, event.AbsMTPositionX, 7),
		event.Decode(event.Record{Time: tv0, Type: 0x15, Code: 3, Value: -9}, event.TagMouse),
	} {
		require.NoError(t, e.Process(x))
		assert.Equal(t, []event.Event{x}, out.take())
	}
	assert.Equal(t, NewKeySet(KeyLeftAlt), e.Simulated())
}

func TestScanDropped(t *testing.T) {
	t.Parallel()
	e, out := newTestEngine(t, true)

	scan := event.Decode(event.Record{Time: tv0, Type: event.EvMsc, Code: event.MscScan, Value: 0x700e2}, event.TagKeyboard)
	require.True(t, scan.IsScan())
	require.NoError(t, e.Process(scan))
	assert.Empty(t, out.take())
	assert.Empty(t, e.Actual())
}

func TestChord(t *testing.T) {
	t.Parallel()

	type Step struct {
		input  event.Event
		expect func(c Config) []event.Event
	}
	type Case struct {
		name            string
		emulateTouchpad bool
		steps           []Step
		desired         KeySet
	}
	just := func(es ...event.Event) func(Config) []event.Event {
		return func(Config) []event.Event { return es }
	}
	cases := []Case{
		{
			name: "button-remap", emulateTouchpad: false,
			steps: []Step{
				{press(KeyLeftAlt), just(press(KeyLeftAlt))},
				{press(KeyLeftMeta), just(press(KeyLeftMeta))},
				// left press absorbed, right pressed, alt hidden
				{press(BtnLeft), just(press(BtnRight), release(KeyLeftAlt))},
			},
			desired: NewKeySet(KeyLeftMeta, BtnRight),
		},
		{
			name: "button-chord-release", emulateTouchpad: false,
			steps: []Step{
				{press(KeyLeftAlt), just(press(KeyLeftAlt))},
				{press(KeyLeftMeta), just(press(KeyLeftMeta))},
				{press(BtnLeft), just(press(BtnRight), release(KeyLeftAlt))},
				// release of never forwarded left press still goes out
				{release(BtnLeft), just(release(BtnLeft), press(KeyLeftAlt), release(BtnRight))},
			},
			desired: NewKeySet(KeyLeftAlt, KeyLeftMeta),
		},
		{
			name: "button-alt-release-first", emulateTouchpad: false,
			steps: []Step{
				{press(KeyLeftMeta), just(press(KeyLeftMeta))},
				{press(KeyLeftAlt), just(press(KeyLeftAlt))},
				{press(BtnLeft), just(press(BtnRight), release(KeyLeftAlt))},
				// alt not desired, release forwarded again; then left must appear pressed
				{release(KeyLeftAlt), just(release(KeyLeftAlt), press(BtnLeft), release(BtnRight))},
			},
			desired: NewKeySet(KeyLeftMeta, BtnLeft),
		},
		{
			name: "touchpad", emulateTouchpad: true,
			steps: []Step{
				{press(KeyLeftAlt), just(press(KeyLeftAlt))},
				{press(KeyLeftMeta), just(press(KeyLeftMeta))},
				{press(BtnLeft), func(c Config) []event.Event {
					es := []event.Event{press(BtnLeft)}
					es = append(es, fingerDown(c)...)
					return append(es, release(KeyLeftAlt))
				}},
			},
			desired: NewKeySet(KeyLeftMeta, BtnLeft, BtnRight),
		},
		{
			name: "touchpad-chord-release", emulateTouchpad: true,
			steps: []Step{
				{press(KeyLeftAlt), just(press(KeyLeftAlt))},
				{press(KeyLeftMeta), just(press(KeyLeftMeta))},
				{press(BtnLeft), func(c Config) []event.Event {
					es := []event.Event{press(BtnLeft)}
					es = append(es, fingerDown(c)...)
					return append(es, release(KeyLeftAlt))
				}},
				{release(KeyLeftMeta), func(c Config) []event.Event {
					es := []event.Event{release(KeyLeftMeta), press(KeyLeftAlt)}
					return append(es, fingerUp(c)...)
				}},
			},
			desired: NewKeySet(KeyLeftAlt, BtnLeft),
		},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			e, out := newTestEngine(t, c.emulateTouchpad)
			for i, step := range c.steps {
				require.NoError(t, e.Process(step.input), "step=%d", i)
				assert.Equal(t, step.expect(e.config), out.take(), "step=%d input=%s", i, step.input)
				assert.Equal(t, e.Desired(), e.Simulated(), "step=%d", i)
			}
			assert.Equal(t, c.desired, e.Desired())
		})
	}
}

func TestSyntheticUsesTriggerTime(t *testing.T) {
	t.Parallel()
	e, out := newTestEngine(t, false)

	require.NoError(t, e.Process(press(KeyLeftAlt)))
	require.NoError(t, e.Process(press(KeyLeftMeta)))
	out.take()
	tv := event.Timeval{Sec: 5, Usec: 6}
	require.NoError(t, e.Process(event.NewKey(event.TagMouse, tv, event.BtnLeft, event.KeyPress)))
	es := out.take()
	require.NotEmpty(t, es)
	for _, x := range es {
		assert.Equal(t, tv, x.Time)
	}
}

func TestEmitError(t *testing.T) {
	t.Parallel()
	e, out := newTestEngine(t, true)
	out.err = errors.New("pipe broken")

	err := e.Process(press(KeyLeftAlt))
	require.Error(t, err)
	assert.Equal(t, out.err, errors.Cause(err))
}

func TestRun(t *testing.T) {
	t.Parallel()

	e, out := newTestEngine(t, false)
	src := &fakeSource{
		events: []event.Event{press(KeyLeftAlt), release(KeyLeftAlt)},
		err:    muxer.ErrStopped,
	}
	require.NoError(t, e.Run(src))
	assert.Equal(t, []event.Event{press(KeyLeftAlt), release(KeyLeftAlt)}, out.take())

	e, _ = newTestEngine(t, false)
	src = &fakeSource{err: errors.NotValidf("frame")}
	err := e.Run(src)
	assert.True(t, errors.IsNotValid(err), "err=%v", err)

	e, out = newTestEngine(t, false)
	out.err = errors.New("sink")
	src = &fakeSource{events: []event.Event{press(KeyLeftAlt)}, err: muxer.ErrStopped}
	err = e.Run(src)
	assert.Equal(t, out.err, errors.Cause(err))
}

// replay reconstructs the set of keys held according to output stream.
func replay(held KeySet, es []event.Event) {
	for _, e := range es {
		switch {
		case e.IsPress():
			held.Add(e.Key())
		case e.IsRelease():
			held.Remove(e.Key())
		case e.Kind == event.KindAbs && e.Code == event.AbsMTTrackingID:
			k := Key{Tag: e.Tag, Code: event.BtnRight}
			if e.Value == event.TrackingIDNone {
				held.Remove(k)
			} else {
				held.Add(k)
			}
		}
	}
}

func TestRandomSequenceConverges(t *testing.T) {
	t.Parallel()

	keys := []Key{
		KeyLeftAlt, KeyLeftMeta, BtnLeft,
		{Tag: event.TagKeyboard, Code: 30}, // KEY_A
		{Tag: event.TagMouse, Code: 0x112}, // BTN_MIDDLE
	}
	for _, touchpad := range []bool{false, true} {
		touchpad := touchpad
		t.Run(fmt.Sprintf("touchpad=%t", touchpad), func(t *testing.T) {
			t.Parallel()
			rnd := helpers.RandTest(t)
			e, out := newTestEngine(t, touchpad)
			e.Log = nil
			held := NewKeySet()
			for i := 0; i < 5000; i++ {
				k := keys[rnd.Intn(len(keys))]
				var x event.Event
				switch rnd.Intn(10) {
				case 0:
					x = event.NewSync(k.Tag, tv0)
				case 1:
					x = event.NewKey(k.Tag, tv0, k.Code, event.KeyAutorepeat)
				case 2:
					x = event.Decode(event.Record{Time: tv0, Type: event.EvMsc, Code: event.MscScan, Value: 1}, k.Tag)
				case 3, 4, 5:
					x = release(k)
				default:
					x = press(k)
				}
				require.NoError(t, e.Process(x), "i=%d input=%s", i, x)
				es := out.take()
				for _, o := range es {
					require.False(t, o.IsScan(), "i=%d input=%s", i, x)
				}
				replay(held, es)
				require.Equal(t, e.Desired(), e.Simulated(), "i=%d input=%s", i, x)
				require.Equal(t, e.Simulated(), held, "i=%d input=%s", i, x)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	assert.NoError(t, c.Validate())
	c.Slot = -1
	assert.True(t, errors.IsNotValid(c.Validate()))
	c = DefaultConfig()
	c.TrackingID = -1
	assert.True(t, errors.IsNotValid(c.Validate()))
}
