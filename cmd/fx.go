package cmd

import (
	"go.uber.org/fx"

	"github.com/arcwright/lambda-gateway/config"
	httphandler "github.com/arcwright/lambda-gateway/internal/handler/http"
	"github.com/arcwright/lambda-gateway/internal/domain/mailbox"
	"github.com/arcwright/lambda-gateway/internal/domain/rendezvous"
	"github.com/arcwright/lambda-gateway/internal/runtime"
	"github.com/arcwright/lambda-gateway/internal/service"
	"github.com/arcwright/lambda-gateway/internal/telemetry"
)

// NewApp wires the full gateway graph: config, telemetry, the two
// rendezvous/mailbox domain primitives, the runtime manager, the
// orchestrator, and the HTTP surface.
func NewApp(cfg config.Config) *fx.App {
	return fx.New(
		fx.Provide(func() config.Config { return cfg }),
		fx.NopLogger,
		telemetry.Module,
		rendezvous.Module,
		mailbox.Module,
		runtime.Module,
		service.Module,
		httphandler.Module,
	)
}
