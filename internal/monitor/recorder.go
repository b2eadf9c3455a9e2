package monitor

import (
	"github.com/danmuck/midiwire/internal/midi"
	"github.com/danmuck/midiwire/internal/observability"
)

// Event is one decoded MIDI event observed on an input. Channel is -1 for
// system-level events.
type Event struct {
	Seq     uint64 `json:"seq"`
	Kind    string `json:"kind"`
	Channel int    `json:"channel"`
	Values  []int  `json:"values,omitempty"`
}

// recorder is the MessageSink for one monitored input. It applies the
// configured channel gate and keeps a bounded event history, oldest dropped
// first.
type recorder struct {
	midi.NopSink

	input   string
	allowed map[byte]bool // nil allows every channel
	limit   int

	seq    uint64
	events []Event

	stray uint64
	gated uint64
}

func newRecorder(input string, channels []int, limit int) *recorder {
	rec := &recorder{input: input, limit: limit}
	if len(channels) > 0 {
		rec.allowed = make(map[byte]bool, len(channels))
		for _, ch := range channels {
			rec.allowed[byte(ch)] = true
		}
	}
	return rec
}

func (r *recorder) record(kind string, channel int, values ...int) {
	r.seq++
	ev := Event{Seq: r.seq, Kind: kind, Channel: channel}
	if len(values) > 0 {
		ev.Values = values
	}
	r.events = append(r.events, ev)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

func (r *recorder) history(limit int) []Event {
	if limit <= 0 || len(r.events) <= limit {
		out := make([]Event, len(r.events))
		copy(out, r.events)
		return out
	}
	out := make([]Event, limit)
	copy(out, r.events[len(r.events)-limit:])
	return out
}

func (r *recorder) CheckChannel(ch byte) bool {
	if r.allowed == nil || r.allowed[ch] {
		return true
	}
	r.gated++
	observability.RecordGatedMessage(r.input)
	return false
}

func (r *recorder) NoteOn(ch, note, vel byte) {
	r.record("note_on", int(ch), int(note), int(vel))
}

func (r *recorder) NoteOff(ch, note, vel byte) {
	r.record("note_off", int(ch), int(note), int(vel))
}

func (r *recorder) PolyAftertouch(ch, note, pressure byte) {
	r.record("poly_aftertouch", int(ch), int(note), int(pressure))
}

func (r *recorder) ChannelAftertouch(ch, pressure byte) {
	r.record("channel_aftertouch", int(ch), int(pressure))
}

func (r *recorder) ControlChange(ch, controller, value byte) {
	r.record("control_change", int(ch), int(controller), int(value))
}

func (r *recorder) ProgramChange(ch, program byte) {
	r.record("program_change", int(ch), int(program))
}

func (r *recorder) PitchBend(ch byte, bend uint16) {
	r.record("pitch_bend", int(ch), int(bend))
}

func (r *recorder) AllSoundOff(ch byte) { r.record("all_sound_off", int(ch)) }
func (r *recorder) ResetAllControllers(ch byte) { r.record("reset_all_controllers", int(ch)) }
func (r *recorder) LocalControl(ch, state byte) { r.record("local_control", int(ch), int(state)) }
func (r *recorder) AllNotesOff(ch byte) { r.record("all_notes_off", int(ch)) }
func (r *recorder) OmniModeOff(ch byte) { r.record("omni_mode_off", int(ch)) }
func (r *recorder) OmniModeOn(ch byte) { r.record("omni_mode_on", int(ch)) }
func (r *recorder) MonoModeOn(ch, n byte) { r.record("mono_mode_on", int(ch), int(n)) }
func (r *recorder) PolyModeOn(ch byte) { r.record("poly_mode_on", int(ch)) }

func (r *recorder) SysExStart() { r.record("sysex_start", -1) }
func (r *recorder) SysExByte(b byte) { r.record("sysex_byte", -1, int(b)) }
func (r *recorder) SysExEnd() { r.record("sysex_end", -1) }

func (r *recorder) NonProtocolByte(b byte) {
	r.stray++
	observability.RecordStrayByte(r.input)
	r.record("non_protocol_byte", -1, int(b))
}

func (r *recorder) Clock() { r.record("clock", -1) }
func (r *recorder) Start() { r.record("start", -1) }
func (r *recorder) Continue() { r.record("continue", -1) }
func (r *recorder) Stop() { r.record("stop", -1) }
func (r *recorder) ActiveSensing() { r.record("active_sensing", -1) }
func (r *recorder) Reset() { r.record("reset", -1) }
