// Oscsync is an OSCQuery discovery and synchronization service.
//
// It advertises this process's OSC endpoint and HTTP query server via
// multicast DNS, discovers peers on the local network (such as a running
// VRChat client), fetches their parameter namespace over HTTP, and
// republishes it as a flat address-to-value map over a websocket stream.
//
// Usage:
//
//	oscsync serve [flags]
//	oscsync watch [flags]
//
// See 'oscsync --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karoux/oscsync/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "oscsync",
	Short: "OSCQuery discovery and synchronization service",
	Long: `A service implementing the discovery half of the OSCQuery protocol.

oscsync advertises an OSCQuery HTTP server and an OSC UDP endpoint over
multicast DNS, discovers peer services on the local network, and mirrors a
peer's avatar parameter namespace as a live flat parameter map.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("oscsync %s (commit: %s)\n", version.Version, version.Commit)
	},
}
