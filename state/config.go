package state

import (
	"math"
	"path/filepath"
	"sync"

	"github.com/altdrag/altdrag/helpers"
	"github.com/altdrag/altdrag/log2"
	"github.com/altdrag/altdrag/muxer"
	"github.com/altdrag/altdrag/remap"
	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Log struct {
		Debug bool `hcl:"debug"`
	} `hcl:"log"`

	Fifo struct {
		Dir    string `hcl:"dir"`
		Prefix string `hcl:"prefix"`
		// 0 = default
		PollMs int `hcl:"poll_ms"`
	} `hcl:"fifo"`

	Remap struct {
		EmulateTouchpad bool `hcl:"emulate_touchpad"`
		HotspotX        int  `hcl:"hotspot_x"`
		HotspotY        int  `hcl:"hotspot_y"`
		MTSlot          int  `hcl:"mt_slot"`
		MTTrackingId    int  `hcl:"mt_tracking_id"`
	} `hcl:"remap"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

// DefaultConfig is what runs without config file.
// Sources are applied on top, keys absent from source keep defaults.
func DefaultConfig() *Config {
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	mo := muxer.DefaultOptions()
	c.Fifo.Dir = mo.Dir
	c.Fifo.Prefix = mo.Prefix
	rc := remap.DefaultConfig()
	c.Remap.EmulateTouchpad = rc.EmulateTouchpad
	c.Remap.HotspotX = int(rc.HotspotX)
	c.Remap.HotspotY = int(rc.HotspotY)
	c.Remap.MTSlot = int(rc.Slot)
	c.Remap.MTTrackingId = int(rc.TrackingID)
	return c
}

func (c *Config) LogLevel() log2.Level {
	if c.Log.Debug {
		return log2.LDebug
	}
	return log2.LInfo
}

func (c *Config) MuxerOptions() muxer.Options {
	return muxer.Options{
		Dir:    c.Fifo.Dir,
		Prefix: c.Fifo.Prefix,
		Poll:   helpers.IntMillisecondDefault(c.Fifo.PollMs, muxer.DefaultPoll),
	}
}

func (c *Config) RemapConfig() remap.Config {
	return remap.Config{
		EmulateTouchpad: c.Remap.EmulateTouchpad,
		HotspotX:        int32(c.Remap.HotspotX),
		HotspotY:        int32(c.Remap.HotspotY),
		Slot:            int32(c.Remap.MTSlot),
		TrackingID:      int32(c.Remap.MTTrackingId),
	}
}

func (c *Config) Validate() error {
	errs := make([]error, 0)
	if c.Fifo.Dir == "" {
		errs = append(errs, errors.NotValidf("config: fifo.dir=empty"))
	}
	if c.Fifo.Prefix == "" {
		errs = append(errs, errors.NotValidf("config: fifo.prefix=empty"))
	}
	if filepath.Base(c.Fifo.Prefix) != c.Fifo.Prefix {
		errs = append(errs, errors.NotValidf("config: fifo.prefix=%s must not contain path separator", c.Fifo.Prefix))
	}
	if c.Fifo.PollMs < 0 {
		errs = append(errs, errors.NotValidf("config: fifo.poll_ms=%d < 0", c.Fifo.PollMs))
	}
	nRange := len(errs)
	for _, f := range []struct {
		key   string
		value int
	}{
		{"hotspot_x", c.Remap.HotspotX},
		{"hotspot_y", c.Remap.HotspotY},
		{"mt_slot", c.Remap.MTSlot},
		{"mt_tracking_id", c.Remap.MTTrackingId},
	} {
		if f.value < math.MinInt32 || f.value > math.MaxInt32 {
			errs = append(errs, errors.NotValidf("config: remap.%s=%d out of int32 range", f.key, f.value))
		}
	}
	// RemapConfig truncates, only check converted values when all fit
	if len(errs) == nRange {
		if err := c.RemapConfig().Validate(); err != nil {
			errs = append(errs, errors.Annotate(err, "config"))
		}
	}
	return helpers.FoldErrors(errs)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

// ReadConfig applies sources in order over DefaultConfig, then validates.
// With OsFullReader, includes are resolved relative to the first source.
func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := DefaultConfig()
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if len(errs) == 0 {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
