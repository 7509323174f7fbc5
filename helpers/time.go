package helpers

import "time"

func IntMillisecondDefault(x int, def time.Duration) time.Duration {
	if x == 0 {
		return def
	}
	return time.Duration(x) * time.Millisecond
}
