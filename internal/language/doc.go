// Package language validates BCP 47 language tags and matches them against
// the language codes external container tools report for tracks.
package language
