package audiosession

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

type device struct {
	name           string
	inputChannels  int
	outputChannels int
}

// deviceHost is the small part of portaudio we rely on.
type deviceHost interface {
	Initialize() error
	Terminate() error
	Devices() ([]device, error)
	DefaultInput() (*device, error)
	DefaultOutput() (*device, error)
}

// PortAudioController checks with portaudio that the devices a mode needs are
// present before reporting it active.
type PortAudioController struct {
	mu               sync.Mutex
	host             deviceHost
	initialized      bool
	mode             Mode
	inputDevice      string
	bluetoothKeyword string
	logger           *logrus.Entry
}

func NewPortAudioController(bluetoothKeyword string, logger *logrus.Logger) *PortAudioController {
	return newPortAudioController(paHost{}, bluetoothKeyword, logger)
}

func newPortAudioController(host deviceHost, bluetoothKeyword string, logger *logrus.Logger) *PortAudioController {
	return &PortAudioController{
		host:             host,
		bluetoothKeyword: strings.ToLower(bluetoothKeyword),
		logger:           logger.WithField("audioSession", "portaudio"),
	}
}

func (c *PortAudioController) Activate(mode Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mode == ModeNone {
		return fmt.Errorf("%w: empty mode", ErrActivation)
	}

	if !c.initialized {
		if err := c.host.Initialize(); err != nil {
			return fmt.Errorf("%w: portaudio init: %v", ErrActivation, err)
		}
		c.initialized = true
	}

	inputName := ""
	if mode.needsInput() {
		in, err := c.selectInput(mode)
		if err != nil {
			return err
		}
		inputName = in.name
	}

	if mode.needsOutput() {
		out, err := c.host.DefaultOutput()
		if err != nil || out == nil || out.outputChannels < 1 {
			return fmt.Errorf("%w: no output device for %s", ErrActivation, mode)
		}
	}

	c.mode = mode
	c.inputDevice = inputName
	c.logger.WithField("input", inputName).Infof("audio session switched to %s", mode)
	return nil
}

func (c *PortAudioController) selectInput(mode Mode) (*device, error) {
	if mode == ModeRecordWithBluetooth && c.bluetoothKeyword != "" {
		devs, err := c.host.Devices()
		if err != nil {
			return nil, fmt.Errorf("%w: list devices: %v", ErrActivation, err)
		}
		for i := range devs {
			d := devs[i]
			if d.inputChannels > 0 && strings.Contains(strings.ToLower(d.name), c.bluetoothKeyword) {
				return &d, nil
			}
		}
		// no bluetooth headset, use the default microphone
	}

	in, err := c.host.DefaultInput()
	if err != nil || in == nil || in.inputChannels < 1 {
		return nil, fmt.Errorf("%w: no input device for %s", ErrActivation, mode)
	}
	return in, nil
}

func (c *PortAudioController) DeactivateToPlayback() error {
	return c.Activate(ModePlayback)
}

func (c *PortAudioController) CurrentMode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// InputDevice returns the name of the microphone selected by the last Activate.
func (c *PortAudioController) InputDevice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputDevice
}

func (c *PortAudioController) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return nil
	}
	c.initialized = false
	c.mode = ModeNone
	return c.host.Terminate()
}

type paHost struct{}

func (paHost) Initialize() error { return portaudio.Initialize() }
func (paHost) Terminate() error  { return portaudio.Terminate() }

func (paHost) Devices() ([]device, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	list := make([]device, 0, len(devs))
	for _, d := range devs {
		list = append(list, fromDeviceInfo(d))
	}
	return list, nil
}

func (paHost) DefaultInput() (*device, error) {
	d, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, err
	}
	dev := fromDeviceInfo(d)
	return &dev, nil
}

func (paHost) DefaultOutput() (*device, error) {
	d, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, err
	}
	dev := fromDeviceInfo(d)
	return &dev, nil
}

func fromDeviceInfo(d *portaudio.DeviceInfo) device {
	return device{
		name:           d.Name,
		inputChannels:  d.MaxInputChannels,
		outputChannels: d.MaxOutputChannels,
	}
}
