// Package media defines the container and track model shared by the probe,
// the selection engine, and the applier.
package media
