package errors

import (
	"fmt"
	"regexp"
	"strings"
)

// Code represents a validated failure-kind code with package prefix
type Code struct {
	value string
}

// Common error codes that can be used across packages
var (
	CommonInternal     = MustNewCode("common.internal")
	CommonInvalidInput = MustNewCode("common.invalid_input")
	CommonUnsupported  = MustNewCode("common.unsupported")
)

// Validation regex: package.name format
var codeRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*\.[a-z][a-z0-9_]*$`)

// NewCode creates a new validated Code
func NewCode(s string) (Code, error) {
	if !codeRegex.MatchString(s) {
		return Code{}, fmt.Errorf("invalid code format '%s': must be 'package.name' (lowercase, underscores, dots only)", s)
	}

	// Check for common patterns that might indicate typos
	if strings.Contains(s, "error") || strings.Contains(s, "err") {
		return Code{}, fmt.Errorf("invalid code '%s': should not contain 'error' or 'err'", s)
	}

	return Code{value: s}, nil
}

// MustNewCode creates a new Code or panics if invalid
func MustNewCode(s string) Code {
	code, err := NewCode(s)
	if err != nil {
		panic(err)
	}
	return code
}

// String returns the string representation of the Code
func (c Code) String() string {
	return c.value
}

// Package returns the package prefix from the code
func (c Code) Package() string {
	if idx := strings.Index(c.value, "."); idx != -1 {
		return c.value[:idx]
	}
	return ""
}

// Name returns the name part from the code
func (c Code) Name() string {
	if idx := strings.Index(c.value, "."); idx != -1 {
		return c.value[idx+1:]
	}
	return c.value
}

// IsValid returns true if the code is properly formatted
func (c Code) IsValid() bool {
	return codeRegex.MatchString(c.value)
}

// Equals checks if two codes are equal
func (c Code) Equals(other Code) bool {
	return c.value == other.value
}

// Kind hierarchy. Packages that expose a classification tree register
// each child code with its parent so callers can match at any level of
// granularity. Registration happens in package init blocks; the map is
// read-only afterwards.
var parents = make(map[Code]Code)

// RegisterKind records parent as the immediate ancestor of child.
// Re-registering a child under a different parent panics; the tree is
// fixed for the lifetime of the process.
func RegisterKind(child, parent Code) Code {
	if existing, ok := parents[child]; ok && !existing.Equals(parent) {
		panic(fmt.Sprintf("code '%s' already registered under '%s'", child, existing))
	}
	parents[child] = parent
	return child
}

// Parent returns the immediate ancestor of c, if it has one.
func (c Code) Parent() (Code, bool) {
	p, ok := parents[c]
	return p, ok
}

// IsA reports whether c equals ancestor or descends from it in the
// registered kind tree.
func (c Code) IsA(ancestor Code) bool {
	for cur := c; ; {
		if cur.Equals(ancestor) {
			return true
		}
		p, ok := parents[cur]
		if !ok {
			return false
		}
		cur = p
	}
}

// Ancestors returns the chain from c's immediate parent up to the root.
func (c Code) Ancestors() []Code {
	var chain []Code
	for cur := c; ; {
		p, ok := parents[cur]
		if !ok {
			return chain
		}
		chain = append(chain, p)
		cur = p
	}
}
