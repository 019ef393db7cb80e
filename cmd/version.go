// File: cmd/version.go
package cmd

// Version is the application version, set at build time via ldflags.
// Example: go build -ldflags "-X github.com/autoapply/autoapply-cli/cmd.Version=1.0.0"
var Version = "0.1.0-dev"
