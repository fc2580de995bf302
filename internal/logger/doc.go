// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - an append-only file sink writing "<timestamp> - <LEVEL> - <message>" lines,
//   - context helpers (ToContext/FromContext/WithName),
//   - convenience functions (Infof, Errorf, DebugKV, etc.).
//
// Every step of the upgrade accepts a context and extracts the logger from it,
// so tests can capture the exact lines a run produces.
package logger
