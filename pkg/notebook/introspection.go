package notebook

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/voxnote/pkg/session"
	"github.com/aretw0/voxnote/pkg/speech"
)

// NotebookState aggregates the state of the notebook's components.
type NotebookState struct {
	Capabilities speech.Capabilities `json:"capabilities"`
	Voice        speech.Voice        `json:"voice"`
	LastStatus   session.Status      `json:"last_status"`
	Session      any                 `json:"session"`
	Service      any                 `json:"service"`
}

// State implements introspection.Introspectable.
func (n *Notebook) State() any {
	return NotebookState{
		Capabilities: n.caps,
		Voice:        n.player.Voice(),
		LastStatus:   n.Status(),
		Session:      n.session.State(),
		Service:      n.service.State(),
	}
}

// ComponentType implements introspection.Component.
func (n *Notebook) ComponentType() string {
	return "notebook"
}

var _ introspection.Introspectable = (*Notebook)(nil)
var _ introspection.Component = (*Notebook)(nil)
