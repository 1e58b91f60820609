package provider

import (
	"context"
	"fmt"
)

// stub 未接入的后端，总是失败（fail closed）
type stub struct {
	id ID
}

// Stub returns a Provider for id whose every call fails with ErrNotImplemented.
func Stub(id ID) Provider {
	return &stub{id: id}
}

func (s *stub) ID() ID { return s.id }

func (s *stub) Generate(_ context.Context, _ *Request) (*Response, error) {
	return nil, fmt.Errorf("%s: %w", s.id, ErrNotImplemented)
}
