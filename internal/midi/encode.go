package midi

import (
	"errors"
	"io"
)

var (
	ErrChannelRange = errors.New("midi: channel out of range")
	ErrDataRange    = errors.New("midi: data byte out of 7-bit range")
	ErrValueRange   = errors.New("midi: value out of 14-bit range")
	ErrNotRealtime  = errors.New("midi: not a realtime status byte")
)

// Encoder writes MIDI 1.0 wire bytes to w. With compression enabled it
// omits repeated channel voice status bytes (running status), producing the
// same byte-saving streams StreamParser is built to decode.
type Encoder struct {
	w             io.Writer
	compress      bool
	runningStatus byte
}

// NewEncoder constructs an encoder without running status compression.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// SetCompression toggles running status compression for subsequent channel
// voice messages.
func (e *Encoder) SetCompression(on bool) {
	e.compress = on
	if !on {
		e.runningStatus = 0
	}
}

func (e *Encoder) NoteOn(channel, note, velocity byte) error {
	return e.channelVoice(StatusNoteOn, channel, note, velocity)
}

func (e *Encoder) NoteOff(channel, note, velocity byte) error {
	return e.channelVoice(StatusNoteOff, channel, note, velocity)
}

func (e *Encoder) PolyAftertouch(channel, note, pressure byte) error {
	return e.channelVoice(StatusPolyAftertouch, channel, note, pressure)
}

func (e *Encoder) ControlChange(channel, controller, value byte) error {
	return e.channelVoice(StatusControlChange, channel, controller, value)
}

func (e *Encoder) ProgramChange(channel, program byte) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	if err := checkData(program); err != nil {
		return err
	}
	return e.emit(StatusProgramChange|channel, program)
}

func (e *Encoder) ChannelAftertouch(channel, pressure byte) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	if err := checkData(pressure); err != nil {
		return err
	}
	return e.emit(StatusChannelAftertouch|channel, pressure)
}

func (e *Encoder) PitchBend(channel byte, bend uint16) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	if bend > 0x3FFF {
		return ErrValueRange
	}
	return e.emit(StatusPitchBend|channel, byte(bend&0x7F), byte(bend>>7))
}

// SysEx writes a complete system exclusive message. Payload bytes must be
// 7-bit clean.
func (e *Encoder) SysEx(payload []byte) error {
	for _, b := range payload {
		if err := checkData(b); err != nil {
			return err
		}
	}
	e.runningStatus = 0
	if _, err := e.w.Write([]byte{StatusSysExStart}); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := e.w.Write(payload); err != nil {
			return err
		}
	}
	_, err := e.w.Write([]byte{StatusSysExEnd})
	return err
}

// SongPosition writes a song position pointer in MIDI beats.
func (e *Encoder) SongPosition(beats uint16) error {
	if beats > 0x3FFF {
		return ErrValueRange
	}
	e.runningStatus = 0
	_, err := e.w.Write([]byte{StatusSongPosition, byte(beats & 0x7F), byte(beats >> 7)})
	return err
}

func (e *Encoder) SongSelect(song byte) error {
	if err := checkData(song); err != nil {
		return err
	}
	e.runningStatus = 0
	_, err := e.w.Write([]byte{StatusSongSelect, song})
	return err
}

func (e *Encoder) TuneRequest() error {
	e.runningStatus = 0
	_, err := e.w.Write([]byte{StatusTuneRequest})
	return err
}

// Realtime writes one system realtime byte. Realtime bytes do not disturb
// running status on the wire.
func (e *Encoder) Realtime(status byte) error {
	if !IsRealtime(status) {
		return ErrNotRealtime
	}
	_, err := e.w.Write([]byte{status})
	return err
}

func (e *Encoder) Clock() error { return e.Realtime(StatusClock) }
func (e *Encoder) Start() error { return e.Realtime(StatusStart) }
func (e *Encoder) Continue() error { return e.Realtime(StatusContinue) }
func (e *Encoder) Stop() error { return e.Realtime(StatusStop) }
func (e *Encoder) ActiveSensing() error { return e.Realtime(StatusActiveSensing) }
func (e *Encoder) Reset() error { return e.Realtime(StatusReset) }

func (e *Encoder) channelVoice(status, channel byte, data ...byte) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	for _, d := range data {
		if err := checkData(d); err != nil {
			return err
		}
	}
	return e.emit(status|channel, data...)
}

func (e *Encoder) emit(status byte, data ...byte) error {
	if !e.compress || status != e.runningStatus {
		if _, err := e.w.Write([]byte{status}); err != nil {
			return err
		}
		if e.compress {
			e.runningStatus = status
		}
	}
	if len(data) > 0 {
		if _, err := e.w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func checkChannel(channel byte) error {
	if channel > 0x0F {
		return ErrChannelRange
	}
	return nil
}

func checkData(b byte) error {
	if b > 0x7F {
		return ErrDataRange
	}
	return nil
}
