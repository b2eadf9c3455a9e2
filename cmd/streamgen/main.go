package main

import (
	"bytes"
	"flag"
	"log"
	"os"

	"github.com/danmuck/midiwire/internal/midi"
)

// streamgen writes a small raw MIDI capture exercising running status,
// channel mode messages, SysEx, and realtime interleave. Useful as mididump
// input and as a smoke stream for the monitor feed endpoint.
func main() {
	output := flag.String("output", "cmd/streamgen/capture.bin", "output path for the capture")
	force := flag.Bool("force", false, "overwrite an existing capture")
	flag.Parse()

	if !*force {
		if _, err := os.Stat(*output); err == nil {
			log.Fatalf("refusing to overwrite %s (use -force)", *output)
		}
	}

	data, err := buildCapture()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d bytes to %s", len(data), *output)
}

func buildCapture() ([]byte, error) {
	var buf bytes.Buffer
	enc := midi.NewEncoder(&buf)
	enc.SetCompression(true)

	steps := []func() error{
		func() error { return enc.ProgramChange(0, 4) },
		func() error { return enc.Start() },
		func() error { return enc.NoteOn(0, 0x3C, 0x64) },
		func() error { return enc.Clock() },
		func() error { return enc.NoteOn(0, 0x40, 0x58) },
		func() error { return enc.NoteOn(0, 0x3C, 0x00) },
		func() error { return enc.ControlChange(0, midi.ControllerModulationWheelMSB, 0x22) },
		func() error { return enc.PitchBend(0, 0x2200) },
		func() error { return enc.PitchBend(0, 0x2000) },
		func() error { return enc.SysEx([]byte{0x7E, 0x00, 0x09, 0x01}) },
		func() error { return enc.NoteOn(0, 0x40, 0x00) },
		func() error { return enc.ControlChange(0, midi.ControllerAllNotesOff, 0x00) },
		func() error { return enc.Stop() },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
