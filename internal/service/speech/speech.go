// Package speech abstracts the client device's capture and synthesis
// engines behind capability interfaces with an explicit lifecycle, so the
// voice channel can drive a browser, a kiosk app or a test double the same
// way.
package speech

import "errors"

var (
	ErrNotAcquired     = errors.New("speech: capability not acquired")
	ErrAlreadyAcquired = errors.New("speech: capability already acquired")
)

// Recognizer is a continuous speech-capture session. At most one recognition
// session is active at a time; Start while active is a no-op.
type Recognizer interface {
	Acquire() error
	Start() error
	Stop() error
	Release()
}

// Synthesizer speaks text on the client device. A new Speak always preempts
// the in-flight utterance; there is no queue.
type Synthesizer interface {
	Acquire() error
	Speak(text, localeHint string) error
	Release()
}

// TranscriptUpdate is one recognition event. Text is the cumulative
// recognized text for the current utterance.
type TranscriptUpdate struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"isFinal"`
}

// Directive is a command pushed to the client device over the voice channel.
type Directive struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
	Lang   string `json:"lang,omitempty"`
	Voice  string `json:"voice,omitempty"`
}

const (
	ActionSpeak        = "speak"
	ActionCancelSpeech = "cancel_speech"
	ActionStartCapture = "start_capture"
	ActionStopCapture  = "stop_capture"
)

// DirectiveSink delivers directives to the device. Implemented by the voice
// WebSocket connection.
type DirectiveSink interface {
	SendDirective(d Directive) error
}

// CaptureErrorKind classifies capture failures reported by the device.
type CaptureErrorKind string

const (
	CapturePermissionDenied CaptureErrorKind = "not-allowed"
	CaptureNoDevice         CaptureErrorKind = "no-device"
	CaptureUnsupported      CaptureErrorKind = "unsupported"
	CaptureNetwork          CaptureErrorKind = "network"
	CaptureInsecureContext  CaptureErrorKind = "insecure-context"
)

// CaptureErrorMessage maps a capture failure to the user-facing explanation
// appended to the conversation. None of these crash the session.
func CaptureErrorMessage(kind CaptureErrorKind) string {
	switch kind {
	case CapturePermissionDenied:
		return "माइक्रोफ़ोन एक्सेस की अनुमति नहीं मिली। कृपया अपने ब्राउज़र सेटिंग्स में जाकर माइक्रोफ़ोन की अनुमति दें।"
	case CaptureNoDevice:
		return "कोई माइक्रोफ़ोन नहीं मिला। कृपया एक माइक्रोफ़ोन कनेक्ट करें।"
	case CaptureUnsupported:
		return "आपका ब्राउज़र वॉइस रिकग्निशन का समर्थन नहीं करता है। कृपया Google Chrome का उपयोग करें।"
	case CaptureNetwork:
		return "स्पीच सर्वर से कनेक्ट नहीं हो सका। कृपया अपना इंटरनेट कनेक्शन जांचें और फिर से प्रयास करें। (Could not connect to the speech server. Please check your internet connection and try again.)"
	case CaptureInsecureContext:
		return "वॉइस रिकग्निशन के लिए HTTPS की आवश्यकता है। (HTTPS is required for voice recognition.)"
	default:
		return "कृपया पुनः प्रयास करें।"
	}
}
