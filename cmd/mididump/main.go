package main

import (
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/midiwire/internal/midi"
	"github.com/danmuck/midiwire/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "optional dump config path")
	input := flag.String("input", "-", "raw capture path, - for stdin")
	flag.Parse()

	observability.InitLogger("mididump")

	cfg := defaultDumpConfig()
	if *configPath != "" {
		loaded, err := loadDumpConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load dump config")
		}
		cfg = loaded
	}

	data, err := readCapture(*input)
	if err != nil {
		log.Fatal().Err(err).Str("input", *input).Msg("failed to read capture")
	}

	sink := newDumpSink(cfg)
	parser := midi.NewStreamParserWithConfig(sink, cfg.Parser)

	messages := 0
	for _, b := range data {
		if parser.PushByte(b) != 0 {
			messages++
		}
	}

	log.Info().
		Int("bytes", len(data)).
		Int("messages", messages).
		Uint64("events", sink.events).
		Uint64("stray_bytes", sink.stray).
		Uint64("gated_messages", sink.gated).
		Msg("capture_decoded")
}

func readCapture(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// dumpSink logs one line per decoded event.
type dumpSink struct {
	midi.NopSink

	allowed      map[byte]bool // nil allows every channel
	hideRealtime bool

	events uint64
	stray  uint64
	gated  uint64
}

func newDumpSink(cfg dumpConfig) *dumpSink {
	sink := &dumpSink{hideRealtime: cfg.HideRealtime}
	if len(cfg.Channels) > 0 {
		sink.allowed = make(map[byte]bool, len(cfg.Channels))
		for _, ch := range cfg.Channels {
			sink.allowed[byte(ch)] = true
		}
	}
	return sink
}

func (d *dumpSink) CheckChannel(ch byte) bool {
	if d.allowed == nil || d.allowed[ch] {
		return true
	}
	d.gated++
	return false
}

func (d *dumpSink) event(kind string) *zerolog.Event {
	d.events++
	return log.Info().Str("event", kind)
}

func (d *dumpSink) realtime(kind string) {
	if d.hideRealtime {
		return
	}
	d.event(kind).Send()
}

func (d *dumpSink) NoteOn(ch, note, vel byte) {
	d.event("note_on").Uint8("ch", ch).Uint8("note", note).Uint8("vel", vel).Send()
}

func (d *dumpSink) NoteOff(ch, note, vel byte) {
	d.event("note_off").Uint8("ch", ch).Uint8("note", note).Uint8("vel", vel).Send()
}

func (d *dumpSink) PolyAftertouch(ch, note, pressure byte) {
	d.event("poly_aftertouch").Uint8("ch", ch).Uint8("note", note).Uint8("pressure", pressure).Send()
}

func (d *dumpSink) ChannelAftertouch(ch, pressure byte) {
	d.event("channel_aftertouch").Uint8("ch", ch).Uint8("pressure", pressure).Send()
}

func (d *dumpSink) ControlChange(ch, controller, value byte) {
	d.event("control_change").Uint8("ch", ch).Uint8("controller", controller).Uint8("value", value).Send()
}

func (d *dumpSink) ProgramChange(ch, program byte) {
	d.event("program_change").Uint8("ch", ch).Uint8("program", program).Send()
}

func (d *dumpSink) PitchBend(ch byte, bend uint16) {
	d.event("pitch_bend").Uint8("ch", ch).Uint16("bend", bend).Send()
}

func (d *dumpSink) AllSoundOff(ch byte) { d.event("all_sound_off").Uint8("ch", ch).Send() }

func (d *dumpSink) ResetAllControllers(ch byte) {
	d.event("reset_all_controllers").Uint8("ch", ch).Send()
}

func (d *dumpSink) LocalControl(ch, state byte) {
	d.event("local_control").Uint8("ch", ch).Uint8("state", state).Send()
}

func (d *dumpSink) AllNotesOff(ch byte) { d.event("all_notes_off").Uint8("ch", ch).Send() }
func (d *dumpSink) OmniModeOff(ch byte) { d.event("omni_mode_off").Uint8("ch", ch).Send() }
func (d *dumpSink) OmniModeOn(ch byte) { d.event("omni_mode_on").Uint8("ch", ch).Send() }

func (d *dumpSink) MonoModeOn(ch, n byte) {
	d.event("mono_mode_on").Uint8("ch", ch).Uint8("channels", n).Send()
}

func (d *dumpSink) PolyModeOn(ch byte) { d.event("poly_mode_on").Uint8("ch", ch).Send() }

func (d *dumpSink) SysExStart() { d.event("sysex_start").Send() }
func (d *dumpSink) SysExByte(b byte) { d.event("sysex_byte").Uint8("byte", b).Send() }
func (d *dumpSink) SysExEnd() { d.event("sysex_end").Send() }

func (d *dumpSink) NonProtocolByte(b byte) {
	d.stray++
	log.Warn().Str("event", "non_protocol_byte").Uint8("byte", b).Send()
}

func (d *dumpSink) Clock() { d.realtime("clock") }
func (d *dumpSink) Start() { d.realtime("start") }
func (d *dumpSink) Continue() { d.realtime("continue") }
func (d *dumpSink) Stop() { d.realtime("stop") }
func (d *dumpSink) ActiveSensing() { d.realtime("active_sensing") }
func (d *dumpSink) Reset() { d.realtime("reset") }
