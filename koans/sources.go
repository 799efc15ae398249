package koans

import "embed"

// Sources holds the koan files with their answers, in the form the workspace
// generator blanks them.
//
//go:embed about_*_test.go placeholders.go doc.go
var Sources embed.FS
