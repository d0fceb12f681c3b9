// Package dispatch iterates the input file list, classifies each path by
// container family, and routes surviving files through probe, plan, and
// apply, aggregating per-file outcomes into a run summary.
package dispatch
