// Package audiosession sequences the device audio mode around recognition.
// A recognition may only start after Activate succeeded; continuous
// recognition hands the device back with DeactivateToPlayback once it stops.
package audiosession

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Mode is the device audio mode.
type Mode string

const (
	ModeNone                Mode = ""
	ModeRecord              Mode = "record"
	ModeRecordWithBluetooth Mode = "record-with-bluetooth"
	ModePlayAndRecord       Mode = "play-and-record"
	ModePlayback            Mode = "playback"
)

func (m Mode) needsInput() bool {
	return m == ModeRecord || m == ModeRecordWithBluetooth || m == ModePlayAndRecord
}

func (m Mode) needsOutput() bool {
	return m == ModePlayAndRecord || m == ModePlayback
}

// ErrActivation is returned when the device can't be switched to the requested mode.
var ErrActivation = errors.New("audio session activation failed")

// Controller activates the device audio session.
type Controller interface {
	Activate(mode Mode) error
	DeactivateToPlayback() error
	CurrentMode() Mode
	Close() error
}

// NoopController accepts every mode. It's used on hosts where the engine
// owns the audio device and nothing has to be prepared.
type NoopController struct {
	mu     sync.Mutex
	mode   Mode
	logger *logrus.Entry
}

func NewNoopController(logger *logrus.Logger) *NoopController {
	return &NoopController{
		logger: logger.WithField("audioSession", "none"),
	}
}

func (c *NoopController) Activate(mode Mode) error {
	if mode == ModeNone {
		return fmt.Errorf("%w: empty mode", ErrActivation)
	}
	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
	c.logger.Debugf("audio session switched to %s", mode)
	return nil
}

func (c *NoopController) DeactivateToPlayback() error {
	return c.Activate(ModePlayback)
}

func (c *NoopController) CurrentMode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *NoopController) Close() error {
	return nil
}
