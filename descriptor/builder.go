package descriptor

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	typeService = "service"
	typeGroup   = "group"

	serviceTokens = 3
	// type, strategy and at least one reference
	minGroupTokens = 3

	weightSeparator = ":"
)

// PropertySource is a flat key/value configuration. *properties.Properties
// satisfies it, MapSource adapts a plain map.
type PropertySource interface {
	Get(key string) (string, bool)
}

// MapSource is a PropertySource backed by a map
type MapSource map[string]string

func (m MapSource) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Build parses the descriptor declared at baseKey. Values follow one of
//
//	service, <url>, <timeoutMillis>
//	group, <strategy>, <ref>[:<weight>], ...
//
// A reference ref of the key k is resolved to k.ref when such a key exists and
// to the absolute key ref otherwise. No partial tree is returned on error.
func Build(src PropertySource, baseKey string) (Descriptor, error) {
	b := &builder{
		src:       src,
		expanding: make(map[string]struct{}),
		built:     make(map[string]Descriptor),
	}
	return b.build(baseKey)
}

// BuildAll builds every root key, failing on the first error
func BuildAll(src PropertySource, roots []string) (map[string]Descriptor, error) {
	result := make(map[string]Descriptor, len(roots))
	for _, root := range roots {
		d, err := Build(src, root)
		if err != nil {
			return nil, fmt.Errorf("building descriptor %s: %w", root, err)
		}
		result[root] = d
	}
	return result, nil
}

type builder struct {
	src PropertySource
	// keys currently being expanded and the order they were entered
	expanding map[string]struct{}
	path      []string
	// finished keys, shared by every group referencing them
	built map[string]Descriptor
}

func (b *builder) build(key string) (Descriptor, error) {
	if d, ok := b.built[key]; ok {
		return d, nil
	}
	if _, ok := b.expanding[key]; ok {
		return nil, &CyclicReferenceError{Key: key, Path: append(slices.Clone(b.path), key)}
	}
	value, ok := b.src.Get(key)
	if !ok {
		return nil, &PropertyNotFoundError{Key: key}
	}
	tokens := tokenize(value)
	var (
		d   Descriptor
		err error
	)
	switch strings.ToLower(tokens[0]) {
	case typeService:
		d, err = buildTarget(key, value, tokens)
	case typeGroup:
		b.expanding[key] = struct{}{}
		b.path = append(b.path, key)
		d, err = b.buildGroup(key, value, tokens)
		delete(b.expanding, key)
		b.path = b.path[:len(b.path)-1]
	default:
		return nil, &PropertyFormatError{Key: key, Value: value, Reason: "unrecognized descriptor type"}
	}
	if err != nil {
		return nil, err
	}
	b.built[key] = d
	return d, nil
}

func buildTarget(key, value string, tokens []string) (*TargetDescriptor, error) {
	if len(tokens) != serviceTokens {
		return nil, &PropertyFormatError{Key: key, Value: value,
			Reason: fmt.Sprintf("expected %d tokens for a service, got %d", serviceTokens, len(tokens))}
	}
	millis, err := strconv.Atoi(tokens[2])
	if err != nil {
		return nil, &PropertyFormatError{Key: key, Value: value, Reason: "timeout is not an integer", Err: err}
	}
	target, err := NewTargetDescriptor(tokens[1], time.Duration(millis)*time.Millisecond)
	if err != nil {
		return nil, &PropertyFormatError{Key: key, Value: value, Reason: "malformed url", Err: err}
	}
	return target, nil
}

func (b *builder) buildGroup(key, value string, tokens []string) (*GroupDescriptor, error) {
	if len(tokens) < minGroupTokens {
		return nil, &PropertyFormatError{Key: key, Value: value, Reason: "group without references"}
	}
	strategy, err := ParseSelectionStrategy(tokens[1])
	if err != nil {
		return nil, &PropertyFormatError{Key: key, Value: value, Reason: "unknown selection strategy", Err: err}
	}
	members := make([]Member, 0, len(tokens)-2)
	for _, token := range tokens[2:] {
		ref, weight, err := parseReference(token)
		if err != nil {
			return nil, &PropertyFormatError{Key: key, Value: value, Reason: "invalid reference " + token, Err: err}
		}
		childKey, err := b.resolve(key, ref)
		if err != nil {
			return nil, err
		}
		child, err := b.build(childKey)
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Descriptor: child, Weight: weight})
	}
	return NewGroupDescriptor(strategy, members)
}

// resolve prefers the nested key over the absolute one
func (b *builder) resolve(key, ref string) (string, error) {
	nested := key + "." + ref
	if _, ok := b.src.Get(nested); ok {
		return nested, nil
	}
	if _, ok := b.src.Get(ref); ok {
		return ref, nil
	}
	return "", &PropertyNotFoundError{Key: nested, Fallback: ref}
}

func parseReference(token string) (string, int, error) {
	ref, weightText, hasWeight := strings.Cut(token, weightSeparator)
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", 0, fmt.Errorf("empty reference")
	}
	if !hasWeight {
		return ref, DefaultWeight, nil
	}
	weight, err := strconv.Atoi(strings.TrimSpace(weightText))
	if err != nil {
		return "", 0, fmt.Errorf("weight is not an integer: %w", err)
	}
	if weight <= 0 {
		return "", 0, fmt.Errorf("weight must be positive, got %d", weight)
	}
	return ref, weight, nil
}

func tokenize(value string) []string {
	tokens := strings.Split(value, ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	return tokens
}
