package secret

import "embed"

// builtinPatternsFS holds the built-in signature catalog.
//
//go:embed patterns/*.yml
var builtinPatternsFS embed.FS
