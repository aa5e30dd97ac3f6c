package flowform

// Version is the library version, overridable at build time via
// -ldflags "-X github.com/flowform/engine.Version=...".
var Version = "0.1.0"
