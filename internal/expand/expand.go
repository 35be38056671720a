// Package expand resolves $NAME references in configuration strings.
//
// Expansion is recursive: a substituted value is itself expanded with the
// same bindings. A name that is already being expanded further up the
// current chain is left literal, so reference cycles terminate. Names with
// no binding are left as written.
package expand

import (
	"errors"
	"os"
	"regexp"
	"strings"
)

var token = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// ErrNoBindings is returned when Expand is called without a binding map.
var ErrNoBindings = errors.New("expand: bindings are required")

// Expand replaces every $NAME in input using bindings. It returns
// ErrNoBindings when bindings is nil.
func Expand(input string, bindings map[string]string) (string, error) {
	if bindings == nil {
		return "", ErrNoBindings
	}
	return expand(input, bindings, nil), nil
}

func expand(input string, bindings map[string]string, active []string) string {
	if !strings.Contains(input, "$") {
		return input
	}
	return token.ReplaceAllStringFunc(input, func(match string) string {
		name := match[1:]
		value, ok := bindings[name]
		if !ok || contains(active, name) {
			return match
		}
		return expand(value, bindings, append(active, name))
	})
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Environ returns the process environment as a binding map.
func Environ() map[string]string {
	env := os.Environ()
	bindings := make(map[string]string, len(env))
	for _, kv := range env {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		bindings[name] = value
	}
	return bindings
}
