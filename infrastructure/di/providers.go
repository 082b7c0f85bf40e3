// Package di assembles the application object graph with Wire. The providers
// here are the single place where handlers meet their buses and the store
// meets its configuration.
package di

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"imagenet-browser/application/commands"
	cmdbus "imagenet-browser/application/commands/bus"
	cmdhandlers "imagenet-browser/application/commands/handlers"
	"imagenet-browser/application/queries"
	qrybus "imagenet-browser/application/queries/bus"
	qryhandlers "imagenet-browser/application/queries/handlers"
	"imagenet-browser/infrastructure/config"
	"imagenet-browser/infrastructure/persistence/gormstore"
)

// Container aggregates everything the entry points need.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *gorm.DB
	UnitOfWork *gormstore.UnitOfWork
	CommandBus *cmdbus.CommandBus
	QueryBus   *qrybus.QueryBus
	Router     http.Handler
}

// ProvideConfig loads configuration from the environment.
func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger builds the process logger. Development gets the console
// encoder, production gets JSON.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideDB opens the relational store and runs migrations.
func ProvideDB(cfg *config.Config) (*gorm.DB, error) {
	return gormstore.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
}

// ProvideUnitOfWork wraps the store connection for transactional writes.
func ProvideUnitOfWork(db *gorm.DB) *gormstore.UnitOfWork {
	return gormstore.NewUnitOfWork(db)
}

// busLogger adapts zap to the command bus logging interface.
type busLogger struct {
	sugar *zap.SugaredLogger
}

func (l busLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l busLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// ProvideCommandBus registers every write operation on the command bus.
func ProvideCommandBus(uow *gormstore.UnitOfWork, logger *zap.Logger) (*cmdbus.CommandBus, error) {
	bus := cmdbus.NewCommandBus()
	pipeline := cmdbus.NewPipeline(cmdbus.LoggingMiddleware(busLogger{sugar: logger.Sugar()}))

	registrations := []struct {
		cmd     cmdbus.Command
		handler cmdbus.CommandHandler
	}{
		{commands.CreateSynsetCommand{}, cmdhandlers.NewCreateSynsetHandler(uow, logger)},
		{commands.UpdateSynsetCommand{}, cmdhandlers.NewUpdateSynsetHandler(uow, logger)},
		{commands.DeleteSynsetCommand{}, cmdhandlers.NewDeleteSynsetHandler(uow, logger)},
		{commands.LinkHyponymCommand{}, cmdhandlers.NewLinkHyponymHandler(uow, logger)},
		{commands.DetachHyponymCommand{}, cmdhandlers.NewDetachHyponymHandler(uow, logger)},
		{commands.CreateImageCommand{}, cmdhandlers.NewCreateImageHandler(uow, logger)},
		{commands.UpdateImageCommand{}, cmdhandlers.NewUpdateImageHandler(uow, logger)},
		{commands.DeleteImageCommand{}, cmdhandlers.NewDeleteImageHandler(uow, logger)},
	}
	for _, reg := range registrations {
		if err := bus.Register(reg.cmd, pipeline.Execute(reg.handler)); err != nil {
			return nil, err
		}
	}

	return bus, nil
}

// ProvideQueryBus registers every read operation on the query bus. Reads go
// through non-transactional repositories over the root connection.
func ProvideQueryBus(uow *gormstore.UnitOfWork, logger *zap.Logger) (*qrybus.QueryBus, error) {
	repos := uow.Repositories()
	bus := qrybus.NewQueryBus()

	registrations := []struct {
		query   qrybus.Query
		handler qrybus.QueryHandler
	}{
		{queries.GetSynsetQuery{}, qryhandlers.NewGetSynsetHandler(repos.Synsets, repos.Images, logger)},
		{queries.ListSynsetsQuery{}, qryhandlers.NewListSynsetsHandler(repos.Synsets, logger)},
		{queries.ListHyponymsQuery{}, qryhandlers.NewListHyponymsHandler(repos.Synsets, logger)},
		{queries.GetHyponymQuery{}, qryhandlers.NewGetHyponymHandler(repos.Synsets, logger)},
		{queries.GetImageQuery{}, qryhandlers.NewGetImageHandler(repos.Images, logger)},
		{queries.GetImageByURLQuery{}, qryhandlers.NewGetImageByURLHandler(repos.Images, logger)},
		{queries.ListSynsetImagesQuery{}, qryhandlers.NewListSynsetImagesHandler(repos.Synsets, repos.Images, logger)},
		{queries.ListImagesQuery{}, qryhandlers.NewListImagesHandler(repos.Images, logger)},
	}
	for _, reg := range registrations {
		if err := bus.Register(reg.query, reg.handler); err != nil {
			return nil, err
		}
	}

	return bus, nil
}
