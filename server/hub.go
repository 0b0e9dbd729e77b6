package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"mfpkg/array"
	"mfpkg/model"
	"mfpkg/sub"
	"mfpkg/upw"
)

// Message types.
const (
	TypeLoad   = "load"
	TypeLoaded = "loaded"
	TypeError  = "error"
	TypePing   = "ping"
	TypePong   = "pong"
)

// LoadRequest is the content of a load message: a package file and the grid
// it belongs to.
type LoadRequest struct {
	Package   string `json:"package"` // sub or upw
	Nrow      int    `json:"nrow"`
	Ncol      int    `json:"ncol"`
	Nlay      int    `json:"nlay"`
	Nper      int    `json:"nper"`
	Transient bool   `json:"transient"`
	Laycbd    []int  `json:"laycbd,omitempty"`
	Version   string `json:"version,omitempty"`
	Text      string `json:"text"`
}

// LoadReply is the content of a loaded message.
type LoadReply struct {
	Package string        `json:"package"`
	Text    string        `json:"text"`
	Summary []array.Stats `json:"summary"`
	Units   []int         `json:"units,omitempty"`
}

type deck interface {
	Render() (string, error)
	Summary() []array.Stats
}

// Process loads the package text of req and renders it back.
func Process(req LoadRequest) (LoadReply, error) {
	host, err := model.NewModflow(req.Version, req.Nrow, req.Ncol, req.Nlay, req.Nper)
	if err != nil {
		return LoadReply{}, err
	}
	host.SetTransient(req.Transient)
	copy(host.Laycbd, req.Laycbd)

	units := model.UnitTable{}
	var d deck
	switch strings.ToLower(req.Package) {
	case "sub":
		d, err = sub.Load(strings.NewReader(req.Text), host, units)
	case "upw":
		d, err = upw.Load(strings.NewReader(req.Text), host, units)
	default:
		return LoadReply{}, fmt.Errorf("unknown package %q", req.Package)
	}
	if err != nil {
		return LoadReply{}, err
	}
	text, err := d.Render()
	if err != nil {
		return LoadReply{}, err
	}
	return LoadReply{
		Package: strings.ToLower(req.Package),
		Text:    text,
		Summary: d.Summary(),
		Units:   units.Originals(),
	}, nil
}

// Hub serves one websocket connection. Requests are handled in order and
// every reply goes through handleResponse, the only writer.
type Hub struct {
	id   string
	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	loaded chan model.Msg
	failed chan model.Msg
	pong   chan model.Msg

	done chan struct{}
}

func NewHub(conn *websocket.Conn) *Hub {
	return &Hub{
		id:     uuid.NewString(),
		conn:   conn,
		msg:    make(chan model.Msg, 10),
		loaded: make(chan model.Msg, 10),
		failed: make(chan model.Msg, 10),
		pong:   make(chan model.Msg, 10),
		done:   make(chan struct{}),
	}
}

func (h *Hub) logger() *log.Entry {
	return log.WithField("session", h.id)
}

func (h *Hub) handleResponse() {
	for {
		var reply model.Msg
		select {
		case reply = <-h.loaded:
		case reply = <-h.failed:
		case reply = <-h.pong:
		case <-h.done:
			return
		}
		if err := h.conn.WriteJSON(&reply); err != nil {
			h.logger().WithError(err).Warn("write reply")
		}
	}
}

// reply queues m unless the session has ended.
func (h *Hub) reply(ch chan<- model.Msg, m model.Msg) {
	select {
	case ch <- m:
	case <-h.done:
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case TypeLoad:
				h.load(msg)
			case TypePing:
				h.reply(h.pong, model.Msg{Type: TypePong, Content: h.id})
			default:
				h.logger().WithField("type", msg.Type).Warn("no such type")
				h.reply(h.failed, model.Msg{Type: TypeError, Content: fmt.Sprintf("no such type %q", msg.Type)})
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) load(msg model.Msg) {
	var req LoadRequest
	if err := json.Unmarshal([]byte(msg.Content), &req); err != nil {
		h.reply(h.failed, model.Msg{Type: TypeError, Content: err.Error()})
		return
	}
	entry := h.logger().WithFields(log.Fields{"package": req.Package, "nlay": req.Nlay})
	reply, err := Process(req)
	if err != nil {
		entry.WithError(err).Info("load failed")
		h.reply(h.failed, model.Msg{Type: TypeError, Content: err.Error()})
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		h.reply(h.failed, model.Msg{Type: TypeError, Content: err.Error()})
		return
	}
	entry.WithField("arrays", len(reply.Summary)).Info("package loaded")
	h.reply(h.loaded, model.Msg{Type: TypeLoaded, Content: string(data)})
}
