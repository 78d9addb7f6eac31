// Package objectkey maps file references to blob store object keys and back.
package objectkey

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned when a key was not produced by the generator.
var ErrInvalidKey = errors.New("invalid object key")

// Generator converts between file references and object keys.
type Generator interface {
	// Key returns the object key for ref.
	Key(ref string) string
	// Ref recovers the reference from a key produced by Key.
	Ref(key string) (string, error)
}

// GitLikeGenerator shards keys by the leading characters of the reference.
// Structure: {prefix}/ab/cd1234ef-5678-...
type GitLikeGenerator struct {
	Prefix      string
	ShardLength int
}

// NewGitLikeGenerator returns the default generator: "uploads" prefix with
// two-character shards.
func NewGitLikeGenerator() *GitLikeGenerator {
	return &GitLikeGenerator{Prefix: "uploads", ShardLength: 2}
}

func (g *GitLikeGenerator) Key(ref string) string {
	ref = sanitize(ref)
	shard := g.ShardLength
	if len(ref) <= shard {
		return join(g.Prefix, "_", ref)
	}
	return join(g.Prefix, ref[:shard], ref[shard:])
}

func (g *GitLikeGenerator) Ref(key string) (string, error) {
	rest, err := trimPrefix(g.Prefix, key)
	if err != nil {
		return "", err
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	var ref string
	switch {
	case parts[0] == "_":
		ref = parts[1]
		if len(ref) > g.ShardLength {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	case len(parts[0]) == g.ShardLength:
		ref = parts[0] + parts[1]
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if !validRef(ref) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return ref, nil
}

// FlatGenerator stores every object directly under the prefix.
// Structure: {prefix}/cd1234ef-5678-...
type FlatGenerator struct {
	Prefix string
}

func NewFlatGenerator(prefix string) *FlatGenerator {
	return &FlatGenerator{Prefix: prefix}
}

func (g *FlatGenerator) Key(ref string) string {
	return join(g.Prefix, sanitize(ref))
}

func (g *FlatGenerator) Ref(key string) (string, error) {
	ref, err := trimPrefix(g.Prefix, key)
	if err != nil {
		return "", err
	}
	if !validRef(ref) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return ref, nil
}

func join(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}

func trimPrefix(prefix, key string) (string, error) {
	if prefix == "" {
		return key, nil
	}
	rest, ok := strings.CutPrefix(key, prefix+"/")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return rest, nil
}

// validRef accepts the characters a generated reference can contain.
func validRef(ref string) bool {
	if ref == "" {
		return false
	}
	for _, r := range ref {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// sanitize replaces characters that would break the key layout.
func sanitize(ref string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, ref)
}
