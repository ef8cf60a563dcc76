// Package di provides a minimal service container used by the monolith and modules.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under name, or nil.
	Get(name string) any
	// MustGet returns the service registered under name, panicking if absent.
	MustGet(name string) any
}

// Container is the write side of the container, used during module registration.
type Container interface {
	ServiceRegistry
	// Register stores a service under name. Re-registering a name panics:
	// service wiring mistakes should fail loudly at startup.
	Register(name string, service any)
}

type container struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewContainer creates an empty service container.
func NewContainer() Container {
	return &container{
		services: make(map[string]any),
	}
}

func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[name]; exists {
		panic(fmt.Sprintf("di: service %q already registered", name))
	}
	c.services[name] = service
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[name]
}

func (c *container) MustGet(name string) any {
	svc := c.Get(name)
	if svc == nil {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	return svc
}
