// Package config merges the command-line, config-file, and built-in default
// layers into one immutable Settings value, with precedence CLI > file >
// default applied field by field.
package config
