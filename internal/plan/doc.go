// Package plan decides which container mutations a file needs. The engine
// is pure: it turns resolved settings and a probed track set into a minimal,
// deterministic mutation plan without performing any I/O.
package plan
