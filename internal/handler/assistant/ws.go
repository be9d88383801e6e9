package assistant

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	conversationService "github.com/smart-bharat/backend/internal/service/conversation"
	"github.com/smart-bharat/backend/internal/service/speech"
)

// WSHandler runs the voice channel: the client device streams capture
// lifecycle, transcripts, its voice inventory and speech errors; the server
// pushes conversation events and speak/capture directives back.
type WSHandler struct {
	convSvc      *conversationService.Service
	speakReplies bool
	upgrader     websocket.Upgrader
}

// NewWSHandler creates the voice channel handler.
func NewWSHandler(convSvc *conversationService.Service, speakReplies bool) *WSHandler {
	return &WSHandler{
		convSvc:      convSvc,
		speakReplies: speakReplies,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the voice WebSocket endpoint.
func (h *WSHandler) RegisterRoutes(r chi.Router) {
	r.Get("/voice/{sessionID}", h.handleVoice)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type transcriptData struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"isFinal"`
}

type voicesData struct {
	Voices []speech.Voice `json:"voices"`
}

type speechErrorData struct {
	Kind string `json:"kind"`
}

// voiceConn serializes writes on the WebSocket and acts as the directive
// sink for the remote speech adapters.
type voiceConn struct {
	mu        sync.Mutex
	ws        *websocket.Conn
	sessionID string
}

func (c *voiceConn) SendDirective(d speech.Directive) error {
	return c.send("directive", d)
}

func (c *voiceConn) send(msgType string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *WSHandler) handleVoice(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	session, err := h.convSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer func() { _ = ws.Close() }()

	conn := &voiceConn{ws: ws, sessionID: sessionID}
	locale := speech.LocaleForLanguage(session.Language)

	// The device's engines are shared singletons; claim them for the
	// lifetime of this connection.
	synth := speech.NewRemoteSynthesizer(conn)
	recognizer := speech.NewRemoteRecognizer(conn)
	if err := synth.Acquire(); err != nil {
		log.Printf("[voice] synthesizer acquire failed: %v", err)
		return
	}
	defer synth.Release()
	if err := recognizer.Acquire(); err != nil {
		log.Printf("[voice] recognizer acquire failed: %v", err)
		return
	}
	defer recognizer.Release()

	events, cancel, err := h.convSvc.Subscribe(sessionID)
	if err != nil {
		log.Printf("[voice] subscribe failed for session=%s: %v", sessionID, err)
		return
	}
	defer cancel()

	go func() {
		for event := range events {
			if err := conn.send("event", event); err != nil {
				return
			}
		}
	}()

	// Speak the greeting as soon as the device reports its voices.
	if h.speakReplies {
		if messages, err := h.convSvc.Messages(r.Context(), sessionID); err == nil && len(messages) > 0 {
			_ = synth.Speak(messages[0].Text, locale)
		}
	}

	log.Printf("[voice] channel open for session=%s", sessionID)
	h.readLoop(r.Context(), conn, session.ID, locale, recognizer, synth)
	log.Printf("[voice] channel closed for session=%s", sessionID)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *voiceConn, sessionID, locale string, recognizer *speech.RemoteRecognizer, synth *speech.RemoteSynthesizer) {
	for {
		var msg inboundMessage
		if err := conn.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[voice] read error for session=%s: %v", sessionID, err)
			}
			return
		}

		switch msg.Type {
		case "start":
			if err := h.convSvc.StartCapture(sessionID); err != nil {
				_ = conn.send("error", map[string]string{"error": err.Error()})
				continue
			}
			_ = recognizer.Start()

		case "stop":
			if err := h.convSvc.StopCapture(sessionID); err != nil {
				_ = conn.send("error", map[string]string{"error": err.Error()})
				continue
			}
			_ = recognizer.Stop()

		case "transcript":
			var data transcriptData
			if err := json.Unmarshal(msg.Data, &data); err != nil || data.Text == "" {
				continue
			}
			if !data.IsFinal {
				continue
			}
			recognizer.SessionEnded()
			h.runTurn(ctx, sessionID, locale, data.Text, synth)

		case "voices":
			var data voicesData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			synth.ReportVoices(data.Voices)

		case "speech_error":
			var data speechErrorData
			_ = json.Unmarshal(msg.Data, &data)
			recognizer.SessionEnded()
			text := speech.CaptureErrorMessage(speech.CaptureErrorKind(data.Kind))
			if _, err := h.convSvc.AppendAssistantMessage(sessionID, text); err != nil {
				log.Printf("[voice] failed to append capture error: %v", err)
			}

		case "utterance_error":
			if err := synth.ReportUtteranceError(); err != nil {
				log.Printf("[voice] utterance retry failed: %v", err)
			}

		default:
			log.Printf("[voice] unknown message type %q for session=%s", msg.Type, sessionID)
		}
	}
}

// runTurn drives one transcript through the state machine and speaks the
// resolved reply. It blocks for at most the generation timeout, which also
// serializes turns per connection.
func (h *WSHandler) runTurn(ctx context.Context, sessionID, locale, transcript string, synth *speech.RemoteSynthesizer) {
	reply, err := h.convSvc.SubmitTranscript(ctx, sessionID, transcript)
	if err != nil {
		log.Printf("[voice] turn failed for session=%s: %v", sessionID, err)
		return
	}
	if h.speakReplies {
		if err := synth.Speak(reply.Text, locale); err != nil {
			log.Printf("[voice] speak failed for session=%s: %v", sessionID, err)
		}
	}
}
