// Package pkg holds the packages behind the gprstep CLI and daemon.
//
// The installation registry lives in pkg/tools, build steps in pkg/build and
// process execution in pkg/launcher. pkg/daemon and pkg/client expose both
// over HTTP.
package pkg
