package speech

import "sync"

// RemoteSynthesizer speaks through a connected client device. The device's
// synthesis engine is a single shared resource, so every Speak cancels the
// previous utterance before the new one starts.
type RemoteSynthesizer struct {
	mu       sync.Mutex
	sink     DirectiveSink
	acquired bool

	voices      []Voice
	voicesKnown bool

	// pending holds at most one utterance deferred until the device reports
	// its voice inventory.
	pending *utterance
	current *utterance
}

type utterance struct {
	text    string
	locale  string
	retried bool
}

// NewRemoteSynthesizer wraps a directive sink.
func NewRemoteSynthesizer(sink DirectiveSink) *RemoteSynthesizer {
	return &RemoteSynthesizer{sink: sink}
}

// Acquire claims the device's synthesis engine.
func (s *RemoteSynthesizer) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquired {
		return ErrAlreadyAcquired
	}
	s.acquired = true
	return nil
}

// Release drops the claim and any deferred utterance.
func (s *RemoteSynthesizer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired = false
	s.pending = nil
	s.current = nil
}

// ReportVoices records the device's voice inventory and flushes the one
// deferred utterance, if any.
func (s *RemoteSynthesizer) ReportVoices(voices []Voice) {
	s.mu.Lock()
	s.voices = append([]Voice(nil), voices...)
	s.voicesKnown = true
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending != nil {
		_ = s.Speak(pending.text, pending.locale)
	}
}

// Speak cancels any in-flight utterance and speaks text with the best
// matching voice. Before the voice inventory arrives the call is deferred;
// a later Speak replaces the deferred one.
func (s *RemoteSynthesizer) Speak(text, localeHint string) error {
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if !s.acquired {
		s.mu.Unlock()
		return ErrNotAcquired
	}
	if !s.voicesKnown {
		s.pending = &utterance{text: text, locale: localeHint}
		s.mu.Unlock()
		return nil
	}
	s.current = &utterance{text: text, locale: localeHint}
	voices := s.voices
	sink := s.sink
	s.mu.Unlock()

	return speakVia(sink, voices, text, localeHint)
}

// ReportUtteranceError handles a synthesis failure from the device. The
// current utterance is retried exactly once with the default locale.
func (s *RemoteSynthesizer) ReportUtteranceError() error {
	s.mu.Lock()
	cur := s.current
	if cur == nil || cur.retried {
		s.mu.Unlock()
		return nil
	}
	cur.retried = true
	voices := s.voices
	sink := s.sink
	text := cur.text
	s.mu.Unlock()

	return speakVia(sink, voices, text, DefaultLocale)
}

func speakVia(sink DirectiveSink, voices []Voice, text, locale string) error {
	if err := sink.SendDirective(Directive{Action: ActionCancelSpeech}); err != nil {
		return err
	}
	d := Directive{Action: ActionSpeak, Text: text, Lang: locale}
	if voice, ok := SelectVoice(voices, locale); ok {
		d.Voice = voice.Name
	}
	return sink.SendDirective(d)
}

// RemoteRecognizer controls the device's capture engine. It only tracks the
// at-most-one-session invariant; transcript events flow back through the
// voice channel, not through this type.
type RemoteRecognizer struct {
	mu       sync.Mutex
	sink     DirectiveSink
	acquired bool
	active   bool
}

// NewRemoteRecognizer wraps a directive sink.
func NewRemoteRecognizer(sink DirectiveSink) *RemoteRecognizer {
	return &RemoteRecognizer{sink: sink}
}

// Acquire claims the device's capture engine.
func (r *RemoteRecognizer) Acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.acquired {
		return ErrAlreadyAcquired
	}
	r.acquired = true
	return nil
}

// Release drops the claim, stopping capture if still active.
func (r *RemoteRecognizer) Release() {
	r.mu.Lock()
	active := r.active
	r.acquired = false
	r.active = false
	sink := r.sink
	r.mu.Unlock()

	if active {
		_ = sink.SendDirective(Directive{Action: ActionStopCapture})
	}
}

// Start begins continuous listening. A second Start while active is a no-op.
func (r *RemoteRecognizer) Start() error {
	r.mu.Lock()
	if !r.acquired {
		r.mu.Unlock()
		return ErrNotAcquired
	}
	if r.active {
		r.mu.Unlock()
		return nil
	}
	r.active = true
	sink := r.sink
	r.mu.Unlock()

	return sink.SendDirective(Directive{Action: ActionStartCapture})
}

// Stop ends listening; the device emits the final transcript event if one
// has not already been emitted.
func (r *RemoteRecognizer) Stop() error {
	r.mu.Lock()
	if !r.acquired {
		r.mu.Unlock()
		return ErrNotAcquired
	}
	if !r.active {
		r.mu.Unlock()
		return nil
	}
	r.active = false
	sink := r.sink
	r.mu.Unlock()

	return sink.SendDirective(Directive{Action: ActionStopCapture})
}

// SessionEnded marks capture inactive after the device reports a final
// transcript or an error, without sending a stop directive.
func (r *RemoteRecognizer) SessionEnded() {
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
}
