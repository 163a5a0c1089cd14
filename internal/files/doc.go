// Package files provides input file discovery for the data directory.
package files
