package server

import "context"

// Server is a transport-agnostic server managed by the application
// lifecycle.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Addr() string
}
