package platform

import (
	"fmt"

	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/notebook"
	"github.com/aretw0/voxnote/pkg/session"
)

// New opens the configured store and returns the note service on top of it.
//
//	svc, err := voxnote.New("./notes", voxnote.WithLocale("de-DE"))
func New(uri string, opts ...Option) (*core.Service, error) {
	o := apply(opts)
	format, err := core.NewTimestampFormat(o.locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale: %w", err)
	}

	kv, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	svcOpts := []core.ServiceOption{
		core.WithTimestampFormat(format),
		core.WithServiceLogger(o.logger),
	}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}
	return core.NewService(kv, svcOpts...), nil
}

// NewNotebook wires the note service with the speech capabilities from the
// options into a Notebook.
func NewNotebook(uri string, statusHandler func(session.Status), opts ...Option) (*notebook.Notebook, error) {
	svc, err := New(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := apply(opts)
	nbOpts := []notebook.Option{notebook.WithLogger(o.logger)}
	if statusHandler != nil {
		nbOpts = append(nbOpts, notebook.WithStatusHandler(statusHandler))
	}
	if o.voice != nil {
		nbOpts = append(nbOpts, notebook.WithVoice(*o.voice))
	}
	return notebook.New(svc, o.recognizer, o.synthesizer, nbOpts...), nil
}
