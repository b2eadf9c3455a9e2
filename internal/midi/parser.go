package midi

import "fmt"

const maxDataBytes = 2

// SystemCommonCounts fixes the data byte count for the system common status
// bytes 0xF1..0xF6, indexed by low nibble minus one. The wire format for the
// reserved codes is underspecified, so the counts are configuration rather
// than a guess baked into the decoder.
type SystemCommonCounts [6]uint8

// DefaultSystemCommonCounts mirrors the counts the decoder has always shipped
// with: 0xF1 and 0xF2 take two data bytes, 0xF3 takes one, 0xF4..0xF6 none.
func DefaultSystemCommonCounts() SystemCommonCounts {
	return SystemCommonCounts{2, 2, 1, 0, 0, 0}
}

// ParserConfig configures one StreamParser instance.
type ParserConfig struct {
	SystemCommon SystemCommonCounts
}

// DefaultParserConfig returns the stock decoder configuration.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{SystemCommon: DefaultSystemCommonCounts()}
}

// Validate rejects data byte counts the two-byte accumulator cannot hold.
func (c ParserConfig) Validate() error {
	for i, n := range c.SystemCommon {
		if n > maxDataBytes {
			return fmt.Errorf("midi: system common 0x%X data count %d exceeds %d",
				0xF1+i, n, maxDataBytes)
		}
	}
	return nil
}

// StreamParser decodes a raw MIDI 1.0 byte stream one byte at a time and
// dispatches each completed message to its sink. It tracks running status,
// accumulates up to two data bytes, and never allocates or blocks inside
// PushByte, so it is safe to feed from an interrupt-style read loop as long
// as access to one instance stays serialized.
type StreamParser struct {
	sink MessageSink

	runningStatus byte
	data          [maxDataBytes]byte
	received      uint8
	expected      uint8
	systemCommon  SystemCommonCounts
}

// NewStreamParser constructs a parser with the stock configuration.
func NewStreamParser(sink MessageSink) *StreamParser {
	return NewStreamParserWithConfig(sink, DefaultParserConfig())
}

// NewStreamParserWithConfig constructs a parser with an explicit system
// common table. Counts above the accumulator size are clamped; use
// ParserConfig.Validate to reject them instead.
func NewStreamParserWithConfig(sink MessageSink, cfg ParserConfig) *StreamParser {
	if sink == nil {
		sink = NopSink{}
	}
	for i, n := range cfg.SystemCommon {
		if n > maxDataBytes {
			cfg.SystemCommon[i] = maxDataBytes
		}
	}
	return &StreamParser{sink: sink, systemCommon: cfg.SystemCommon}
}

// RunningStatus returns the active running status byte, 0 when none.
func (p *StreamParser) RunningStatus() byte {
	return p.runningStatus
}

// PushByte feeds one wire byte through the decoder. It returns the status
// byte of a message that was completed and dispatched by this byte, or 0.
//
// Realtime bytes complete immediately and leave the in-flight message state
// untouched; they may legally arrive between the bytes of any other message.
func (p *StreamParser) PushByte(b byte) byte {
	if IsRealtime(b) {
		p.dispatchRealtime(b)
		return b
	}

	if IsStatus(b) {
		p.received = 0
		p.expected = p.expectedData(b)
		// A status byte while a SysEx stream is open terminates the stream
		// implicitly, including a fresh 0xF0. The explicit terminator 0xF7
		// emits its single SysExEnd through dispatch instead.
		if p.runningStatus == StatusSysExStart && b != StatusSysExEnd {
			p.sink.SysExEnd()
		}
		p.runningStatus = b
		if b == StatusSysExStart {
			p.sink.SysExStart()
		}
	} else {
		if p.runningStatus == 0 && p.expected == 0 {
			// Data byte with no message in progress. Report and resync on
			// the next status byte.
			p.sink.NonProtocolByte(b)
			return 0
		}
		p.data[p.received] = b
		p.received++
	}

	if p.received < p.expected {
		return 0
	}

	status := p.runningStatus
	p.dispatch(status)
	p.received = 0
	if status > StatusSysExStart {
		// System common has no running status: a following data byte without
		// a fresh status byte is malformed, not a repeat.
		p.expected = 0
		p.runningStatus = 0
	}
	return status
}

func (p *StreamParser) expectedData(status byte) uint8 {
	switch status & 0xF0 {
	case StatusProgramChange, StatusChannelAftertouch:
		return 1
	case StatusSysExStart:
		lo := status & 0x0F
		switch {
		case lo == 0x0:
			// SysEx payload streams through one byte at a time.
			return 1
		case lo == 0x7:
			return 0
		default:
			return p.systemCommon[lo-1]
		}
	default:
		return 2
	}
}

func (p *StreamParser) dispatch(status byte) {
	hi := status & 0xF0
	ch := status & 0x0F

	if hi != StatusSysExStart && !p.sink.CheckChannel(ch) {
		return
	}

	switch hi {
	case StatusNoteOff:
		p.sink.NoteOff(ch, p.data[0], p.data[1])
	case StatusNoteOn:
		// Velocity 0 is the wire convention for note off.
		if p.data[1] != 0 {
			p.sink.NoteOn(ch, p.data[0], p.data[1])
		} else {
			p.sink.NoteOff(ch, p.data[0], 0)
		}
	case StatusPolyAftertouch:
		p.sink.PolyAftertouch(ch, p.data[0], p.data[1])
	case StatusControlChange:
		p.dispatchControl(ch, p.data[0], p.data[1])
	case StatusProgramChange:
		p.sink.ProgramChange(ch, p.data[0])
	case StatusChannelAftertouch:
		p.sink.ChannelAftertouch(ch, p.data[0])
	case StatusPitchBend:
		p.sink.PitchBend(ch, uint16(p.data[1])<<7|uint16(p.data[0]))
	case StatusSysExStart:
		switch ch {
		case 0x0:
			p.sink.SysExByte(p.data[0])
		case 0x7:
			p.sink.SysExEnd()
		default:
			// Reserved system common codes are consumed with no event.
		}
	}
}

func (p *StreamParser) dispatchControl(ch, controller, value byte) {
	switch controller {
	case ControllerAllSoundOff:
		p.sink.AllSoundOff(ch)
	case ControllerResetAllControllers:
		p.sink.ResetAllControllers(ch)
	case ControllerLocalControl:
		p.sink.LocalControl(ch, value)
	case ControllerAllNotesOff:
		p.sink.AllNotesOff(ch)
	case ControllerOmniModeOff:
		p.sink.OmniModeOff(ch)
	case ControllerOmniModeOn:
		p.sink.OmniModeOn(ch)
	case ControllerMonoModeOn:
		p.sink.MonoModeOn(ch, value)
	case ControllerPolyModeOn:
		p.sink.PolyModeOn(ch)
	default:
		p.sink.ControlChange(ch, controller, value)
	}
}

func (p *StreamParser) dispatchRealtime(b byte) {
	switch b {
	case StatusClock:
		p.sink.Clock()
	case StatusStart:
		p.sink.Start()
	case StatusContinue:
		p.sink.Continue()
	case StatusStop:
		p.sink.Stop()
	case StatusActiveSensing:
		p.sink.ActiveSensing()
	case StatusReset:
		p.sink.Reset()
	default:
		// 0xF9 and 0xFD are undefined realtime codes; consumed, no event.
	}
}
