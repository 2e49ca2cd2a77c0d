// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/pxlassets/pkg/api" //nolint:depguard
	"github.com/ssargent/pxlassets/pkg/codec"
)

// Container holds all the dependencies for the application
type Container struct {
	imageDecoder  codec.ImageDecoder
	audioSystem   codec.AudioSystem
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		imageDecoder:  codec.StdImageDecoder{},
		audioSystem:   codec.NullAudioSystem{},
		serverFactory: api.NewServerFactory(),
	}
}

// GetImageDecoder returns the decoder used by the compiler
func (c *Container) GetImageDecoder() codec.ImageDecoder {
	return c.imageDecoder
}

// GetAudioSystem returns the runtime audio backend
func (c *Container) GetAudioSystem() codec.AudioSystem {
	return c.audioSystem
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetImageDecoder allows overriding the image decoder (for testing)
func (c *Container) SetImageDecoder(decoder codec.ImageDecoder) {
	c.imageDecoder = decoder
}

// SetAudioSystem allows overriding the audio backend
func (c *Container) SetAudioSystem(sys codec.AudioSystem) {
	c.audioSystem = sys
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
