package ports

import (
	"context"
)

// HTTPServer defines the interface for the editor bridge server
type HTTPServer interface {
	Start(ctx context.Context, port int, host string) error
	Stop(ctx context.Context) error
	IsRunning() bool
	URL() string
}
