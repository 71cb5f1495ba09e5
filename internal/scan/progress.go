package scan

import (
	"fmt"
	"time"
)

// Level classifies a progress event.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is a single progress log line.
type Event struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// ProgressFunc receives events as a scan advances. It is called on the
// scanning goroutine.
type ProgressFunc func(Event)

// recorder keeps the event log for one scan and forwards each event.
type recorder struct {
	now      func() time.Time
	progress ProgressFunc
	events   []Event
}

func (r *recorder) add(level Level, format string, args ...any) {
	e := Event{Level: level, Message: fmt.Sprintf(format, args...), Time: r.now()}
	r.events = append(r.events, e)
	if r.progress != nil {
		r.progress(e)
	}
}

func (r *recorder) info(format string, args ...any)    { r.add(LevelInfo, format, args...) }
func (r *recorder) success(format string, args ...any) { r.add(LevelSuccess, format, args...) }
func (r *recorder) warn(format string, args ...any)    { r.add(LevelWarning, format, args...) }
func (r *recorder) fail(format string, args ...any)    { r.add(LevelError, format, args...) }
