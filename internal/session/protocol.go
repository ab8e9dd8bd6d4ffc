package session

import (
	"encoding/json"

	"github.com/inamate/annotator/internal/engine"
	"github.com/inamate/annotator/internal/input"
	"github.com/inamate/annotator/internal/labels"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Client to server
	TypeOpen    = "image.open"
	TypeInput   = "input"
	TypeCommand = "command"

	// Server to client
	TypeState = "state"
)

type WelcomePayload struct {
	SessionID string         `json:"sessionId"`
	ClientID  string         `json:"clientId"`
	Labels    []labels.Label `json:"labels"`
}

// OpenPayload starts editing an image. An empty ImageID opens a scratch
// image that is never persisted.
type OpenPayload struct {
	ImageID string  `json:"imageId,omitempty"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// CommandPayload carries one host command. Only the fields the named
// command uses are read.
type CommandPayload struct {
	Name     string          `json:"name"`
	Tool     string          `json:"tool,omitempty"`
	Label    string          `json:"label,omitempty"`
	Opacity  float64         `json:"opacity,omitempty"`
	Viewport *input.Viewport `json:"viewport,omitempty"`
	Indices  []int           `json:"indices,omitempty"`
	Shape    int             `json:"shape,omitempty"`
	Vertex   int             `json:"vertex,omitempty"`
	Width    float64         `json:"width,omitempty"`
	Height   float64         `json:"height,omitempty"`
	Shapes   json.RawMessage `json:"shapes,omitempty"`
}

const (
	CommandSetTool         = "setTool"
	CommandSetViewport     = "setViewport"
	CommandSetImageSize    = "setImageSize"
	CommandSetLabel        = "setLabel"
	CommandSetOpacity      = "setOpacity"
	CommandSelect          = "select"
	CommandUndo            = "undo"
	CommandRedo            = "redo"
	CommandCancel          = "cancel"
	CommandCopy            = "copy"
	CommandPaste           = "paste"
	CommandDelete          = "deleteSelection"
	CommandInsertMidpoint  = "insertMidpoint"
	CommandDeleteVertex    = "deleteVertex"
	CommandLoadAnnotations = "loadAnnotations"
	CommandLoadSample      = "loadSample"
)

type StatePayload struct {
	engine.State
	ImageID      string               `json:"imageId,omitempty"`
	DrawCommands []engine.DrawCommand `json:"drawCommands"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
