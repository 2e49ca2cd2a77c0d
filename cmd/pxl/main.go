package main

import (
	"github.com/ssargent/pxlassets/cmd/pxl/cmd"
	"github.com/ssargent/pxlassets/pkg/di"
)

func main() {
	// Initialize dependency injection container
	container := di.NewContainer()

	// Inject dependencies into cmd package
	cmd.SetContainer(container)

	cmd.Execute()
}
