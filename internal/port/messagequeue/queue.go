// Package messagequeue defines the port for durable event publication.
package messagequeue

import "context"

// Queue publishes messages to named subjects. Implementations own the
// underlying connection lifecycle.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}
