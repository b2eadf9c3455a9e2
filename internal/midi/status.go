package midi

// Channel voice status bytes, channel 0 form. The low nibble carries the
// channel for anything below StatusSysExStart.
const (
	StatusNoteOff           byte = 0x80
	StatusNoteOn            byte = 0x90
	StatusPolyAftertouch    byte = 0xA0
	StatusControlChange     byte = 0xB0
	StatusProgramChange     byte = 0xC0
	StatusChannelAftertouch byte = 0xD0
	StatusPitchBend         byte = 0xE0
)

// System status bytes.
const (
	StatusSysExStart    byte = 0xF0
	StatusTimeCode      byte = 0xF1
	StatusSongPosition  byte = 0xF2
	StatusSongSelect    byte = 0xF3
	StatusTuneRequest   byte = 0xF6
	StatusSysExEnd      byte = 0xF7
	StatusClock         byte = 0xF8
	StatusStart         byte = 0xFA
	StatusContinue      byte = 0xFB
	StatusStop          byte = 0xFC
	StatusActiveSensing byte = 0xFE
	StatusReset         byte = 0xFF
)

// Channel mode controller numbers. ControlChange messages carrying these
// controller values dispatch to the mode capabilities instead.
const (
	ControllerAllSoundOff         byte = 0x78
	ControllerResetAllControllers byte = 0x79
	ControllerLocalControl        byte = 0x7A
	ControllerAllNotesOff         byte = 0x7B
	ControllerOmniModeOff         byte = 0x7C
	ControllerOmniModeOn          byte = 0x7D
	ControllerMonoModeOn          byte = 0x7E
	ControllerPolyModeOn          byte = 0x7F
)

// Common continuous controller numbers.
const (
	ControllerModulationWheelMSB byte = 0x01
	ControllerPortamentoTimeMSB  byte = 0x05
	ControllerDataEntryMSB       byte = 0x06
	ControllerDataEntryLSB       byte = 0x26
	ControllerHoldPedal          byte = 0x40
	ControllerHarmonicIntensity  byte = 0x47
	ControllerRelease            byte = 0x48
	ControllerAttack             byte = 0x49
	ControllerBrightness         byte = 0x4A
	ControllerNRPNLSB            byte = 0x62
	ControllerNRPNMSB            byte = 0x63
)

// Family classifies a status byte. Channel mode is not a wire-level family:
// it is a ControlChange carrying a reserved controller number, so it only
// becomes distinguishable at dispatch time.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyChannelVoice
	FamilySystemExclusive
	FamilySystemCommon
	FamilySystemRealtime
)

func (f Family) String() string {
	switch f {
	case FamilyChannelVoice:
		return "channel_voice"
	case FamilySystemExclusive:
		return "system_exclusive"
	case FamilySystemCommon:
		return "system_common"
	case FamilySystemRealtime:
		return "system_realtime"
	default:
		return "none"
	}
}

// StatusFamily classifies one status byte. Data bytes map to FamilyNone.
func StatusFamily(status byte) Family {
	switch {
	case status >= StatusClock:
		return FamilySystemRealtime
	case status == StatusSysExStart || status == StatusSysExEnd:
		return FamilySystemExclusive
	case status > StatusSysExStart:
		return FamilySystemCommon
	case status >= StatusNoteOff:
		return FamilyChannelVoice
	default:
		return FamilyNone
	}
}

// IsStatus reports whether b is a status byte (high bit set).
func IsStatus(b byte) bool {
	return b >= 0x80
}

// IsRealtime reports whether b is a system realtime byte. Realtime bytes may
// legally interleave with any in-flight message.
func IsRealtime(b byte) bool {
	return b >= StatusClock
}
