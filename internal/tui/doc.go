// Package tui implements the interactive watch dashboard.
//
// The dashboard runs a full discovery/synchronization pipeline and shows
// its state live: the services discovered on the local network, the peer
// currently synchronized against, and the flat parameter map as it
// updates. Pipeline callbacks feed the bubbletea program via messages, so
// the model itself stays single-threaded.
package tui
