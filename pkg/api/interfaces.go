// Package api provides interfaces for dependency injection
package api

// ServerStarter defines the interface for starting the asset browser
type ServerStarter interface {
	// StartServer serves source until the listener fails
	StartServer(source AssetSource, bind string, port int, apiKey string) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
