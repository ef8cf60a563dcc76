package di

import (
	"fmt"
	"sync"
)

// Token is a typed key for a service in the container.
type Token[T any] struct {
	name string
}

// NewToken creates a typed token under a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry name.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazily-built singleton under the token. The
// factory runs on first resolution.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.Register(token.name, &lazy[T]{factory: factory})
}

// GetToken resolves the service registered under the token, panicking on
// a missing or mistyped registration.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	svc := sr.MustGet(token.name)

	if l, ok := svc.(*lazy[T]); ok {
		return l.resolve(sr)
	}

	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", token.name, svc))
	}
	return typed
}

type lazy[T any] struct {
	once    sync.Once
	factory func(ServiceRegistry) T
	value   T
}

func (l *lazy[T]) resolve(sr ServiceRegistry) T {
	l.once.Do(func() {
		l.value = l.factory(sr)
		l.factory = nil
	})
	return l.value
}
