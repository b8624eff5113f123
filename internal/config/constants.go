// Package config holds project-wide constants and the optional project
// manifest, in the shape of funvibe-funxy/internal/config/constants.go.
package config

// Version is the current loom toolchain version.
var Version = "0.1.0"

// SourceFileExt is the single project-chosen source extension spec.md §6
// calls for ("a single project-chosen extension").
const SourceFileExt = ".loom"

// Built-in function names (the skeletal FFI set spec.md §6 requires).
const (
	PrintFuncName = "print"
	LenFuncName   = "len"
	PushFuncName  = "push"
)
