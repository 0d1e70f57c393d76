package fx

import (
	"go.uber.org/fx"

	httpFX "github.com/nutshell-sh/nutshell/internal/fx/http"
)

// HTTPServerModules combines all modules needed for HTTP server entrypoint
var HTTPServerModules = fx.Options(
	CoreModules,
	httpFX.HTTPModule,
	httpFX.HTTPLifecycleModule,
)
