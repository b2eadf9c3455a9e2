package midi

import (
	"fmt"
	"testing"

	"github.com/danmuck/midiwire/internal/testutil/testlog"
)

// recordSink records every capability invocation as one formatted line.
type recordSink struct {
	NopSink
	events  []string
	blocked map[byte]bool
}

func (r *recordSink) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recordSink) NoteOn(ch, note, vel byte) { r.add("note_on %d %d %d", ch, note, vel) }
func (r *recordSink) NoteOff(ch, note, vel byte) { r.add("note_off %d %d %d", ch, note, vel) }
func (r *recordSink) PolyAftertouch(ch, note, p byte) { r.add("poly_at %d %d %d", ch, note, p) }
func (r *recordSink) ChannelAftertouch(ch, p byte) { r.add("chan_at %d %d", ch, p) }
func (r *recordSink) ControlChange(ch, cc, v byte) { r.add("cc %d %d %d", ch, cc, v) }
func (r *recordSink) ProgramChange(ch, prog byte) { r.add("program %d %d", ch, prog) }
func (r *recordSink) PitchBend(ch byte, bend uint16) { r.add("bend %d %d", ch, bend) }
func (r *recordSink) AllSoundOff(ch byte) { r.add("all_sound_off %d", ch) }
func (r *recordSink) ResetAllControllers(ch byte) { r.add("reset_controllers %d", ch) }
func (r *recordSink) LocalControl(ch, state byte) { r.add("local_control %d %d", ch, state) }
func (r *recordSink) AllNotesOff(ch byte) { r.add("all_notes_off %d", ch) }
func (r *recordSink) OmniModeOff(ch byte) { r.add("omni_off %d", ch) }
func (r *recordSink) OmniModeOn(ch byte) { r.add("omni_on %d", ch) }
func (r *recordSink) MonoModeOn(ch, n byte) { r.add("mono_on %d %d", ch, n) }
func (r *recordSink) PolyModeOn(ch byte) { r.add("poly_on %d", ch) }
func (r *recordSink) SysExStart() { r.add("sysex_start") }
func (r *recordSink) SysExByte(b byte) { r.add("sysex_byte %d", b) }
func (r *recordSink) SysExEnd() { r.add("sysex_end") }
func (r *recordSink) NonProtocolByte(b byte) { r.add("non_protocol %d", b) }
func (r *recordSink) Clock() { r.add("clock") }
func (r *recordSink) Start() { r.add("start") }
func (r *recordSink) Continue() { r.add("continue") }
func (r *recordSink) Stop() { r.add("stop") }
func (r *recordSink) ActiveSensing() { r.add("active_sensing") }
func (r *recordSink) Reset() { r.add("reset") }

func (r *recordSink) CheckChannel(ch byte) bool {
	return !r.blocked[ch]
}

func feed(t *testing.T, p *StreamParser, stream []byte) []byte {
	t.Helper()
	out := make([]byte, 0, len(stream))
	for _, b := range stream {
		out = append(out, p.PushByte(b))
	}
	return out
}

func assertEvents(t *testing.T, sink *recordSink, want ...string) {
	t.Helper()
	if len(sink.events) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(sink.events), sink.events)
	}
	for i, w := range want {
		if sink.events[i] != w {
			t.Fatalf("event[%d] = %q, want %q (all: %v)", i, sink.events[i], w, sink.events)
		}
	}
}

func TestNoteOnCompletesOnFinalByteOnly(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	returns := feed(t, p, []byte{0x90, 0x40, 0x7F})
	if returns[0] != 0 || returns[1] != 0 {
		t.Fatalf("message completed early: %v", returns)
	}
	if returns[2] != 0x90 {
		t.Fatalf("expected completion status 0x90, got 0x%X", returns[2])
	}
	assertEvents(t, sink, "note_on 0 64 127")
}

func TestNoteOnVelocityZeroIsNoteOff(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0x90, 0x40, 0x00})
	assertEvents(t, sink, "note_off 0 64 0")
}

func TestRunningStatusDecodesOmittedStatusBytes(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	returns := feed(t, p, []byte{0x90, 0x40, 0x7F, 0x41, 0x50})
	assertEvents(t, sink, "note_on 0 64 127", "note_on 0 65 80")
	if returns[4] != 0x90 {
		t.Fatalf("running status completion should return 0x90, got 0x%X", returns[4])
	}
}

func TestNoteOffStatusByte(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0x83, 0x40, 0x20})
	assertEvents(t, sink, "note_off 3 64 32")
}

func TestChannelModeControllersDispatchByValue(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		controller byte
		value      byte
		want       string
	}{
		{0x78, 0x00, "all_sound_off 0"},
		{0x79, 0x00, "reset_controllers 0"},
		{0x7A, 0x7F, "local_control 0 127"},
		{0x7B, 0x00, "all_notes_off 0"},
		{0x7C, 0x00, "omni_off 0"},
		{0x7D, 0x00, "omni_on 0"},
		{0x7E, 0x04, "mono_on 0 4"},
		{0x7F, 0x00, "poly_on 0"},
	}
	for _, tc := range cases {
		sink := &recordSink{}
		p := NewStreamParser(sink)
		feed(t, p, []byte{0xB0, tc.controller, tc.value})
		assertEvents(t, sink, tc.want)
	}
}

func TestControlChangeBelowModeRangeStaysGeneric(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0xB2, ControllerModulationWheelMSB, 0x33})
	assertEvents(t, sink, "cc 2 1 51")
}

func TestProgramChangeAndChannelAftertouchSingleData(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	returns := feed(t, p, []byte{0xC5, 0x09, 0xD5, 0x44})
	assertEvents(t, sink, "program 5 9", "chan_at 5 68")
	if returns[1] != 0xC5 || returns[3] != 0xD5 {
		t.Fatalf("unexpected completion returns: %v", returns)
	}
}

func TestPitchBendFourteenBitLittleEndian(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	// LSB 0x01, MSB 0x40 -> 0x2001.
	feed(t, p, []byte{0xE1, 0x01, 0x40})
	assertEvents(t, sink, fmt.Sprintf("bend 1 %d", 0x2001))
}

func TestSysExStreamsPayloadBytesIndividually(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0xF0, 0x01, 0x02, 0xF7})
	assertEvents(t, sink, "sysex_start", "sysex_byte 1", "sysex_byte 2", "sysex_end")
}

func TestRealtimeInterleavesWithoutDisturbingSysEx(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	returns := feed(t, p, []byte{0xF0, 0x01, 0xF8, 0x02, 0xF7})
	assertEvents(t, sink, "sysex_start", "sysex_byte 1", "clock", "sysex_byte 2", "sysex_end")
	if returns[2] != 0xF8 {
		t.Fatalf("realtime byte should complete immediately, got 0x%X", returns[2])
	}
}

func TestRealtimeInterleavesWithinChannelMessage(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0x90, 0x40, 0xF8, 0x7F})
	assertEvents(t, sink, "clock", "note_on 0 64 127")
}

func TestImplicitSysExTerminationOnNewStatus(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0xF0, 0x01, 0x90, 0x40, 0x7F})
	assertEvents(t, sink, "sysex_start", "sysex_byte 1", "sysex_end", "note_on 0 64 127")
}

func TestFreshSysExStartTerminatesOpenStream(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0xF0, 0x01, 0xF0, 0x02, 0xF7})
	assertEvents(t, sink,
		"sysex_start", "sysex_byte 1",
		"sysex_end", "sysex_start", "sysex_byte 2", "sysex_end")
}

func TestChannelGateConsumesSilently(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{blocked: map[byte]bool{3: true}}
	p := NewStreamParser(sink)

	returns := feed(t, p, []byte{0x93, 0x40, 0x7F})
	assertEvents(t, sink)
	// The message is still fully consumed and completes.
	if returns[2] != 0x93 {
		t.Fatalf("gated message should still complete, got 0x%X", returns[2])
	}

	// Decoder state stays consistent; an accepted channel decodes right after.
	feed(t, p, []byte{0x94, 0x41, 0x50})
	assertEvents(t, sink, "note_on 4 65 80")
}

func TestStrayDataByteReportsNonProtocol(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	if got := p.PushByte(0x40); got != 0 {
		t.Fatalf("stray data byte returned 0x%X", got)
	}
	assertEvents(t, sink, "non_protocol 64")

	// State is untouched: a valid message decodes immediately after.
	feed(t, p, []byte{0x90, 0x40, 0x7F})
	assertEvents(t, sink, "non_protocol 64", "note_on 0 64 127")
}

func TestSystemCommonClearsRunningStatus(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	returns := feed(t, p, []byte{0xF2, 0x10, 0x20})
	if returns[2] != 0xF2 {
		t.Fatalf("song position should complete on second data byte, got %v", returns)
	}
	if p.RunningStatus() != 0 {
		t.Fatalf("system common must clear running status, got 0x%X", p.RunningStatus())
	}

	// A following data byte has no status to reuse.
	p.PushByte(0x40)
	assertEvents(t, sink, "non_protocol 64")
}

func TestTuneRequestCompletesWithoutEvent(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	if got := p.PushByte(0xF6); got != 0xF6 {
		t.Fatalf("expected tune request completion, got 0x%X", got)
	}
	assertEvents(t, sink)
	if p.RunningStatus() != 0 {
		t.Fatalf("tune request must not leave running status")
	}
}

func TestUndefinedRealtimeConsumedSilently(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	if got := p.PushByte(0xF9); got != 0xF9 {
		t.Fatalf("undefined realtime should still return its byte, got 0x%X", got)
	}
	if got := p.PushByte(0xFD); got != 0xFD {
		t.Fatalf("undefined realtime should still return its byte, got 0x%X", got)
	}
	assertEvents(t, sink)
}

func TestAllDefinedRealtimeEvents(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0xF8, 0xFA, 0xFB, 0xFC, 0xFE, 0xFF})
	assertEvents(t, sink, "clock", "start", "continue", "stop", "active_sensing", "reset")
}

func TestReservedSystemCommonConsumedWithConfiguredCounts(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	// Stock table: 0xF1 takes two data bytes and emits nothing.
	returns := feed(t, p, []byte{0xF1, 0x01, 0x02})
	if returns[2] != 0xF1 {
		t.Fatalf("expected 0xF1 completion on second data byte, got %v", returns)
	}
	assertEvents(t, sink)
}

func TestCustomSystemCommonCounts(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	cfg := DefaultParserConfig()
	cfg.SystemCommon[0] = 1 // 0xF1 -> one data byte
	p := NewStreamParserWithConfig(sink, cfg)

	returns := feed(t, p, []byte{0xF1, 0x01, 0x90, 0x40, 0x7F})
	if returns[1] != 0xF1 {
		t.Fatalf("expected 0xF1 completion on first data byte, got %v", returns)
	}
	assertEvents(t, sink, "note_on 0 64 127")
}

func TestParserConfigValidateRejectsOversizedCounts(t *testing.T) {
	testlog.Start(t)
	cfg := DefaultParserConfig()
	cfg.SystemCommon[3] = 3
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for oversized data count")
	}
	if err := DefaultParserConfig().Validate(); err != nil {
		t.Fatalf("stock config should validate: %v", err)
	}
}

func TestNilSinkDefaultsToNop(t *testing.T) {
	testlog.Start(t)
	p := NewStreamParser(nil)
	if got := p.PushByte(0xF8); got != 0xF8 {
		t.Fatalf("nop sink parser should still decode, got 0x%X", got)
	}
}

func TestPolyAftertouch(t *testing.T) {
	testlog.Start(t)
	sink := &recordSink{}
	p := NewStreamParser(sink)

	feed(t, p, []byte{0xA7, 0x30, 0x11})
	assertEvents(t, sink, "poly_at 7 48 17")
}

func TestStatusFamilyClassification(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		status byte
		want   Family
	}{
		{0x80, FamilyChannelVoice},
		{0x9F, FamilyChannelVoice},
		{0xE0, FamilyChannelVoice},
		{0xF0, FamilySystemExclusive},
		{0xF7, FamilySystemExclusive},
		{0xF1, FamilySystemCommon},
		{0xF6, FamilySystemCommon},
		{0xF8, FamilySystemRealtime},
		{0xFF, FamilySystemRealtime},
		{0x40, FamilyNone},
	}
	for _, tc := range cases {
		if got := StatusFamily(tc.status); got != tc.want {
			t.Fatalf("StatusFamily(0x%X) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
