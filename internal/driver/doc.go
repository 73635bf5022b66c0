// Package driver runs the translation pipeline over files and directories:
// load, translate with diagnostics, cache, and for whole projects, build
// the import graph between esspy modules.
package driver
