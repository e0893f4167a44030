//go:build wireinject
// +build wireinject

package app

import (
	"github.com/complai/internal/config"
	"github.com/google/wire"
)

// InitializeApp wires the frontend from configuration.
func InitializeApp(cfg config.AppConfig) (*App, func(), error) {
	wire.Build(ProviderSet)
	return &App{}, nil, nil
}
