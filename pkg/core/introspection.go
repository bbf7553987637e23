package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	StorageType string `json:"storage_type"`
	Locale      string `json:"locale"`
	Layout      string `json:"layout"`
	Storage     any    `json:"storage,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	storageType := "unknown"
	var storage any
	if in, ok := s.kv.(introspection.Introspectable); ok {
		storage = in.State()
	}
	if s.kv != nil {
		storageType = "key-value"
		if comp, ok := s.kv.(introspection.Component); ok {
			storageType = comp.ComponentType()
		}
	}

	return ServiceState{
		StorageType: storageType,
		Locale:      s.format.Tag.String(),
		Layout:      s.format.Layout,
		Storage:     storage,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
