package migration

import "embed"

// embeddedScripts ships the goose SQL migrations inside the binary so
// deployments migrate without a scripts directory on disk.
//
//go:embed scripts/*.sql
var embeddedScripts embed.FS
