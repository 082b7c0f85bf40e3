//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"imagenet-browser/interfaces/http/rest"
	"imagenet-browser/interfaces/http/rest/handlers"
)

// InitializeContainer builds the full object graph.
func InitializeContainer() (*Container, error) {
	wire.Build(
		ProvideConfig,
		ProvideLogger,
		ProvideDB,
		ProvideUnitOfWork,
		ProvideCommandBus,
		ProvideQueryBus,
		handlers.NewEntryHandler,
		handlers.NewSynsetHandler,
		handlers.NewImageHandler,
		rest.NewRouter,
		wire.Struct(new(Container), "Config", "Logger", "DB", "UnitOfWork", "CommandBus", "QueryBus", "Router"),
	)
	return nil, nil
}
