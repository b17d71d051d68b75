// Package startup handles configuration loading, build information, and the
// structured boot/shutdown logging sequence.
package startup
