package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/inamate/annotator/internal/drawing"
	"github.com/inamate/annotator/internal/engine"
	"github.com/inamate/annotator/internal/input"
	"github.com/inamate/annotator/internal/persist"
	"github.com/inamate/annotator/internal/typeid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	loadWait   = 5 * time.Second
	maxMsgSize = 1 << 20
)

var errUnknownCommand = errors.New("unknown command")

// Client is one connection and the engine it drives.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sendMu    sync.Mutex
	closed    bool
	eng       *engine.Engine
	ClientID  string
	SessionID string
	ImageID   string
}

func NewClient(hub *Hub, conn *websocket.Conn, clientID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		eng:       engine.New(hub.opts),
		ClientID:  clientID,
		SessionID: typeid.NewSessionID(),
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			c.sendError(0, "invalid message")
			continue
		}

		msg.ClientID = c.ClientID
		msg.SessionID = c.SessionID

		c.handleMessage(ctx, &msg)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ClientID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, msg *Message) {
	switch msg.Type {
	case TypeOpen:
		var open OpenPayload
		if err := json.Unmarshal(msg.Payload, &open); err != nil {
			c.sendError(msg.Seq, "invalid open payload")
			return
		}
		if err := c.open(ctx, open); err != nil {
			slog.Warn("open image failed", "error", err, "client", c.ClientID)
			c.sendError(msg.Seq, err.Error())
			return
		}
		c.sendState(msg.Seq)

	case TypeInput:
		ev, err := input.DecodeEvent(msg.Payload)
		if err != nil {
			c.sendError(msg.Seq, err.Error())
			return
		}
		if c.eng.HandleEvent(ev) {
			c.sendState(msg.Seq)
		}

	case TypeCommand:
		var cmd CommandPayload
		if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
			c.sendError(msg.Seq, "invalid command payload")
			return
		}
		if err := c.command(cmd); err != nil {
			c.sendError(msg.Seq, err.Error())
			return
		}
		c.sendState(msg.Seq)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", c.ClientID)
		c.sendError(msg.Seq, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// open replaces the engine with a fresh one for the image, restoring its
// last snapshot and attaching persistence.
func (c *Client) open(ctx context.Context, open OpenPayload) error {
	if open.ImageID != "" {
		if err := typeid.Validate(open.ImageID, typeid.PrefixImage); err != nil {
			return err
		}
	}

	eng := engine.New(c.hub.opts)
	eng.SetImageSize(open.Width, open.Height)

	if open.ImageID != "" && c.hub.loader != nil {
		loadCtx, cancel := context.WithTimeout(ctx, loadWait)
		snap, err := c.hub.loader.Latest(loadCtx, open.ImageID)
		cancel()
		switch {
		case err == nil:
			eng.LoadAnnotations(snap.Shapes)
		case errors.Is(err, persist.ErrNotFound):
		default:
			return fmt.Errorf("load annotations: %w", err)
		}
	}
	if open.ImageID != "" && c.hub.sinks != nil {
		eng.Subscribe(c.hub.sinks.For(open.ImageID))
	}

	c.eng = eng
	c.ImageID = open.ImageID
	slog.Info("image opened", "image", open.ImageID, "session", c.SessionID, "shapes", len(eng.Shapes()))
	return nil
}

func (c *Client) command(cmd CommandPayload) error {
	switch cmd.Name {
	case CommandSetTool:
		tool, ok := drawing.ParseTool(cmd.Tool)
		if !ok {
			return fmt.Errorf("unknown tool %q", cmd.Tool)
		}
		c.eng.SetTool(tool)
	case CommandSetViewport:
		if cmd.Viewport == nil {
			return errors.New("missing viewport")
		}
		c.eng.SetViewport(*cmd.Viewport)
	case CommandSetImageSize:
		c.eng.SetImageSize(cmd.Width, cmd.Height)
	case CommandSetLabel:
		c.eng.SetLabel(cmd.Label)
	case CommandSetOpacity:
		if cmd.Opacity < 0 || cmd.Opacity > 1 {
			return fmt.Errorf("opacity %v out of range", cmd.Opacity)
		}
		c.eng.SetOpacity(cmd.Opacity)
	case CommandSelect:
		c.eng.Select(cmd.Indices)
	case CommandUndo:
		c.eng.Undo()
	case CommandRedo:
		c.eng.Redo()
	case CommandCancel:
		c.eng.Cancel()
	case CommandCopy:
		c.eng.Copy()
	case CommandPaste:
		c.eng.Paste()
	case CommandDelete:
		c.eng.DeleteSelection()
	case CommandInsertMidpoint:
		c.eng.InsertMidpoint(cmd.Shape, cmd.Vertex)
	case CommandDeleteVertex:
		c.eng.DeleteVertex(cmd.Shape, cmd.Vertex)
	case CommandLoadAnnotations:
		if err := c.eng.LoadAnnotationsJSON(cmd.Shapes); err != nil {
			return fmt.Errorf("load annotations: %w", err)
		}
	case CommandLoadSample:
		c.eng.LoadSample()
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cmd.Name)
	}
	return nil
}

func (c *Client) sendState(seq int64) {
	c.sendPayload(TypeState, seq, StatePayload{
		State:        c.eng.State(),
		ImageID:      c.ImageID,
		DrawCommands: c.eng.DrawCommands(),
	})
}

func (c *Client) sendError(seq int64, message string) {
	c.sendPayload(TypeError, seq, ErrorPayload{Message: message})
}

func (c *Client) sendPayload(typ string, seq int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "error", err, "type", typ)
		return
	}
	c.Send(&Message{
		Type:      typ,
		SessionID: c.SessionID,
		ClientID:  c.ClientID,
		Seq:       seq,
		Payload:   data,
	})
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

// closeSend ends the write pump. Later sends are dropped.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
