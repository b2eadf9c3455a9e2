package midi

// MessageSink receives decoded events from a StreamParser. One capability is
// invoked per completed message. Implementations embed NopSink and override
// only the events they care about.
//
// CheckChannel gates every channel-addressed message before its capability
// fires; returning false consumes the message silently.
type MessageSink interface {
	NoteOn(channel, note, velocity byte)
	NoteOff(channel, note, velocity byte)
	PolyAftertouch(channel, note, pressure byte)
	ChannelAftertouch(channel, pressure byte)
	ControlChange(channel, controller, value byte)
	ProgramChange(channel, program byte)
	PitchBend(channel byte, bend uint16)

	AllSoundOff(channel byte)
	ResetAllControllers(channel byte)
	LocalControl(channel, state byte)
	AllNotesOff(channel byte)
	OmniModeOff(channel byte)
	OmniModeOn(channel byte)
	MonoModeOn(channel, numChannels byte)
	PolyModeOn(channel byte)

	SysExStart()
	SysExByte(b byte)
	SysExEnd()
	NonProtocolByte(b byte)

	Clock()
	Start()
	Continue()
	Stop()
	ActiveSensing()
	Reset()

	CheckChannel(channel byte) bool
}

// NopSink implements MessageSink with no-op behavior for every capability and
// accepts all channels.
type NopSink struct{}

var _ MessageSink = NopSink{}

func (NopSink) NoteOn(channel, note, velocity byte) {}
func (NopSink) NoteOff(channel, note, velocity byte) {}
func (NopSink) PolyAftertouch(channel, note, pressure byte) {}
func (NopSink) ChannelAftertouch(channel, pressure byte) {}
func (NopSink) ControlChange(channel, controller, value byte) {}
func (NopSink) ProgramChange(channel, program byte) {}
func (NopSink) PitchBend(channel byte, bend uint16) {}
func (NopSink) AllSoundOff(channel byte) {}
func (NopSink) ResetAllControllers(channel byte) {}
func (NopSink) LocalControl(channel, state byte) {}
func (NopSink) AllNotesOff(channel byte) {}
func (NopSink) OmniModeOff(channel byte) {}
func (NopSink) OmniModeOn(channel byte) {}
func (NopSink) MonoModeOn(channel, numChannels byte) {}
func (NopSink) PolyModeOn(channel byte) {}
func (NopSink) SysExStart() {}
func (NopSink) SysExByte(b byte) {}
func (NopSink) SysExEnd() {}
func (NopSink) NonProtocolByte(b byte) {}
func (NopSink) Clock() {}
func (NopSink) Start() {}
func (NopSink) Continue() {}
func (NopSink) Stop() {}
func (NopSink) ActiveSensing() {}
func (NopSink) Reset() {}
func (NopSink) CheckChannel(channel byte) bool { return true }
