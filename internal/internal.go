// Package internal contains internal implementation details.
package internal

import (
	"github.com/apex/log"

	wmediumd "github.com/msft-mirror-aosp/platform.external.wmediumd"
)

// NullLogger is a [wmediumd.Logger] that does not emit logs.
type NullLogger struct{}

// Debug implements wmediumd.Logger
func (nl *NullLogger) Debug(message string) {
	// nothing
}

// Debugf implements wmediumd.Logger
func (nl *NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Info implements wmediumd.Logger
func (nl *NullLogger) Info(message string) {
	// nothing
}

// Infof implements wmediumd.Logger
func (nl *NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warn implements wmediumd.Logger
func (nl *NullLogger) Warn(message string) {
	// nothing
}

// Warnf implements wmediumd.Logger
func (nl *NullLogger) Warnf(format string, v ...any) {
	// nothing
}

var _ wmediumd.Logger = &NullLogger{}

// ApexLogger adapts an [log.Interface] (typically [log.Log] itself, or a
// *log.Entry carrying fields) to [wmediumd.Logger], so the simulator core
// stays independent of any concrete logging library.
type ApexLogger struct {
	Entry log.Interface
}

// NewApexLogger wraps entry as a [wmediumd.Logger].
func NewApexLogger(entry log.Interface) *ApexLogger {
	return &ApexLogger{Entry: entry}
}

// Debug implements wmediumd.Logger
func (a *ApexLogger) Debug(message string) { a.Entry.Debug(message) }

// Debugf implements wmediumd.Logger
func (a *ApexLogger) Debugf(format string, v ...any) { a.Entry.Debugf(format, v...) }

// Info implements wmediumd.Logger
func (a *ApexLogger) Info(message string) { a.Entry.Info(message) }

// Infof implements wmediumd.Logger
func (a *ApexLogger) Infof(format string, v ...any) { a.Entry.Infof(format, v...) }

// Warn implements wmediumd.Logger
func (a *ApexLogger) Warn(message string) { a.Entry.Warn(message) }

// Warnf implements wmediumd.Logger
func (a *ApexLogger) Warnf(format string, v ...any) { a.Entry.Warnf(format, v...) }

var _ wmediumd.Logger = &ApexLogger{}
