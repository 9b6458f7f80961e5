package model

import "time"

// NowMillis returns the current time as Unix milliseconds, the timestamp
// format every persisted entity uses.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
