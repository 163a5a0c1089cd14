// Package exporter writes the pipeline's output artifacts: the cleaned
// data and building summary CSVs, the plain-text executive summary, and
// the PNG dashboard. All writers treat an empty dataset as a valid input
// and produce placeholder artifacts; write failures are fatal storage
// errors since they indicate a broken environment.
package exporter
