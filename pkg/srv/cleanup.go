package srv

import (
	"context"
	"fmt"
)

// cleanupService adapts a close function, such as the database handle, into
// the Service lifecycle. It only participates in shutdown.
type cleanupService struct {
	name    string
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup == nil {
		return nil
	}
	if err := c.cleanup(); err != nil {
		return fmt.Errorf("close %s: %w", c.name, err)
	}
	return nil
}

func NewCleanup(name string, fn func() error) Service {
	return &cleanupService{name: name, cleanup: fn}
}
