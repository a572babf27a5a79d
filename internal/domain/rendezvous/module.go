package rendezvous

import "go.uber.org/fx"

// Module provides the rendezvous singleton to the fx app graph.
var Module = fx.Module("rendezvous",
	fx.Provide(New),
)
