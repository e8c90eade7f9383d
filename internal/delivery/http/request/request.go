package request

import (
	"encoding/json"

	"github.com/user/page-sentinel/internal/usecase"
)

// MessageRequest is a host message as it arrives over HTTP.
type MessageRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (m MessageRequest) ToUsecase() usecase.Request {
	return usecase.Request{Action: m.Action, Data: m.Data}
}

// EventRequest carries one pointer or keyboard event.
type EventRequest struct {
	Type     string `json:"type"`
	Target   string `json:"target,omitempty"`
	Key      string `json:"key,omitempty"`
	CtrlKey  bool   `json:"ctrlKey,omitempty"`
	ShiftKey bool   `json:"shiftKey,omitempty"`
	AltKey   bool   `json:"altKey,omitempty"`
	MetaKey  bool   `json:"metaKey,omitempty"`
}

func (e EventRequest) ToEvent() *usecase.Event {
	return &usecase.Event{
		Type:     usecase.EventType(e.Type),
		Target:   e.Target,
		Key:      e.Key,
		CtrlKey:  e.CtrlKey,
		ShiftKey: e.ShiftKey,
		AltKey:   e.AltKey,
		MetaKey:  e.MetaKey,
	}
}
