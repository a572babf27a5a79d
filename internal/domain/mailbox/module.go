package mailbox

import "go.uber.org/fx"

// Module provides the response registry singleton to the fx app graph.
var Module = fx.Module("mailbox",
	fx.Provide(New),
)
