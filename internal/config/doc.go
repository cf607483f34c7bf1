// Package config loads the oscsync service configuration.
//
// Configuration lives in a single YAML file under the user config
// directory (e.g. ~/.config/oscsync/config.yaml) or an explicit path.
// A missing file yields the defaults, so the service runs with zero
// configuration: a loopback-bound query server, OSC on port 9000, and the
// standard VRChat client peer prefix.
package config
