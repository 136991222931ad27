// Package midi feeds note events from a MIDI input device to a kuoro voice
// pool. Incoming messages are buffered into a channel so that one goroutine
// can consume them and serialize the allocator calls, as the allocator itself
// does no locking.
package midi

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	// Input is a MIDI input device feeding note events into Events.
	Input struct {
		driver *rtmididrv.Driver
		in     drivers.In
		stop   func()
		events chan NoteEvent
	}

	// NoteEvent is a note on or note off message.
	NoteEvent struct {
		On       bool
		Note     byte
		Velocity byte
	}
)

// NewInput opens the MIDI driver. No device is opened yet; use OpenBy.
func NewInput() (*Input, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("cannot open MIDI driver: %v", err)
	}
	return &Input{driver: driver, events: make(chan NoteEvent, 1024)}, nil
}

// Devices lists the names of the available input devices.
func (m *Input) Devices() []string {
	ins, err := m.driver.Ins()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// OpenBy opens the first input device whose name starts with namePrefix, or
// just the first device if takeFirst is set.
func (m *Input) OpenBy(namePrefix string, takeFirst bool) error {
	ins, err := m.driver.Ins()
	if err != nil {
		return fmt.Errorf("cannot list MIDI inputs: %v", err)
	}
	for _, in := range ins {
		if takeFirst || strings.HasPrefix(in.String(), namePrefix) {
			if err := in.Open(); err != nil {
				return fmt.Errorf("opening MIDI input failed: %v", err)
			}
			stop, err := midi.ListenTo(in, m.handleMessage)
			if err != nil {
				in.Close()
				return fmt.Errorf("listening to MIDI input failed: %v", err)
			}
			m.in = in
			m.stop = stop
			return nil
		}
	}
	if takeFirst {
		return errors.New("no MIDI input devices found")
	}
	return fmt.Errorf("no MIDI input device starting with %q found", namePrefix)
}

// Events returns the channel of buffered note events.
func (m *Input) Events() <-chan NoteEvent {
	return m.events
}

func (m *Input) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	isNoteOn := msg.GetNoteOn(&channel, &key, &velocity)
	isNoteOff := !isNoteOn && msg.GetNoteOff(&channel, &key, &velocity)
	if !isNoteOn && !isNoteOff {
		return
	}
	select {
	case m.events <- NoteEvent{On: isNoteOn, Note: key, Velocity: velocity}:
	default: // if the channel is full, just drop the message
	}
}

// Close closes the open device, if any, and the driver.
func (m *Input) Close() error {
	if m.stop != nil {
		m.stop()
	}
	if m.in != nil && m.in.IsOpen() {
		m.in.Close()
	}
	return m.driver.Close()
}
