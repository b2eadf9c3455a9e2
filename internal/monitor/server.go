package monitor

import (
	"errors"
	"sort"
	"sync"

	"github.com/danmuck/midiwire/internal/midi"
	"github.com/danmuck/midiwire/internal/observability"
)

var (
	ErrInputExists   = errors.New("monitor: input already registered")
	ErrInputNotFound = errors.New("monitor: input not found")
	ErrInvalidInput  = errors.New("monitor: invalid input id")
)

// InputStatus reports observed decode state for one input.
type InputStatus struct {
	ID            string `json:"id"`
	Channels      []int  `json:"channels,omitempty"`
	BytesIn       uint64 `json:"bytes_in"`
	Messages      uint64 `json:"messages"`
	StrayBytes    uint64 `json:"stray_bytes"`
	GatedMessages uint64 `json:"gated_messages"`
	RunningStatus byte   `json:"running_status"`
}

// FeedResult summarizes one batch of bytes pushed through an input's decoder.
type FeedResult struct {
	Bytes      int  `json:"bytes"`
	Messages   int  `json:"messages"`
	LastStatus byte `json:"last_status"`
}

type inputState struct {
	id       string
	channels []int
	parser   *midi.StreamParser
	rec      *recorder
	bytesIn  uint64
	messages uint64
}

// Server holds one independent StreamParser per registered input. All access
// is serialized under one mutex; the decoder itself is single-threaded per
// instance.
type Server struct {
	mu sync.Mutex

	parserCfg    midi.ParserConfig
	historyLimit int
	inputs       map[string]*inputState
}

// NewServer constructs an empty input registry sharing one parser
// configuration.
func NewServer(parserCfg midi.ParserConfig, historyLimit int) *Server {
	return &Server{
		parserCfg:    parserCfg,
		historyLimit: historyLimit,
		inputs:       make(map[string]*inputState),
	}
}

// AddInput registers one input with an optional channel filter. An empty
// filter accepts every channel.
func (s *Server) AddInput(id string, channels []int) error {
	if id == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inputs[id]; ok {
		return ErrInputExists
	}
	rec := newRecorder(id, channels, s.historyLimit)
	s.inputs[id] = &inputState{
		id:       id,
		channels: append([]int(nil), channels...),
		parser:   midi.NewStreamParserWithConfig(rec, s.parserCfg),
		rec:      rec,
	}
	return nil
}

// RemoveInput drops one input and its decode state.
func (s *Server) RemoveInput(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inputs[id]; !ok {
		return ErrInputNotFound
	}
	delete(s.inputs, id)
	return nil
}

// Feed pushes raw wire bytes through one input's decoder.
func (s *Server) Feed(id string, data []byte) (FeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.inputs[id]
	if !ok {
		return FeedResult{}, ErrInputNotFound
	}

	result := FeedResult{Bytes: len(data)}
	for _, b := range data {
		status := state.parser.PushByte(b)
		if status == 0 {
			continue
		}
		result.Messages++
		result.LastStatus = status
		observability.RecordMessage(id, midi.StatusFamily(status).String())
	}
	state.bytesIn += uint64(len(data))
	state.messages += uint64(result.Messages)
	observability.RecordBytes(id, len(data))
	return result, nil
}

// Events returns up to limit most recent decoded events for one input.
func (s *Server) Events(id string, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.inputs[id]
	if !ok {
		return nil, ErrInputNotFound
	}
	return state.rec.history(limit), nil
}

// Inputs returns status for every registered input, ordered by id.
func (s *Server) Inputs() []InputStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]InputStatus, 0, len(s.inputs))
	for _, state := range s.inputs {
		out = append(out, InputStatus{
			ID:            state.id,
			Channels:      append([]int(nil), state.channels...),
			BytesIn:       state.bytesIn,
			Messages:      state.messages,
			StrayBytes:    state.rec.stray,
			GatedMessages: state.rec.gated,
			RunningStatus: state.parser.RunningStatus(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
