// Package hostchannel holds the wire shapes exchanged with the host application.
package hostchannel

import (
	"github.com/goccy/go-json"
)

// Channel delivers an event to the host application. It is fire-and-forget,
// delivery errors are logged by the implementation.
type Channel interface {
	InvokeMethod(method string, arguments interface{})
}

// Event is published for every InvokeMethod call.
type Event struct {
	Method    string      `json:"method"`
	Arguments interface{} `json:"arguments"`
}

// CommandReq is sent by the host to execute a command.
type CommandReq struct {
	Method    string                 `json:"method"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// CommandRes acknowledges a command.
type CommandRes struct {
	Status bool        `json:"status"`
	Msg    string      `json:"msg,omitempty"`
	Result interface{} `json:"result"`
}

func MarshalEvent(method string, arguments interface{}) ([]byte, error) {
	return json.Marshal(&Event{
		Method:    method,
		Arguments: arguments,
	})
}
