// Package config reads the upgrade settings file and builds an immutable Config.
//
// The settings file holds one KEY=VALUE assignment per line. Values found there
// take precedence over the process environment, which in turn overrides the
// built-in defaults.
package config
