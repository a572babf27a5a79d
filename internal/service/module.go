package service

import "go.uber.org/fx"

// Module provides the production id generator and the invocation
// orchestrator to the fx app graph.
var Module = fx.Module("service",
	fx.Provide(
		func() Generator { return NewUUIDGenerator() },
		NewOrchestrator,
	),
)
