package input

import (
	"sort"

	evdev "github.com/holoplot/go-evdev"
	"github.com/juju/errors"
)

type DeviceInfo struct {
	Path string
	Name string
}

// ListDevices enumerates /dev/input/event* to help pick -device for producers.
func ListDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, errors.Annotate(err, "list input devices")
	}
	result := make([]DeviceInfo, 0, len(paths))
	for _, p := range paths {
		result = append(result, DeviceInfo{Path: p.Path, Name: p.Name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}
