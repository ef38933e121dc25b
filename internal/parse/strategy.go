// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

const (
	StrategySectioned = "sectioned"
	StrategyTyped     = "typed"
)

// ErrUnknownStrategy is returned by NewStrategy for an unrecognized name.
var ErrUnknownStrategy = errors.New("unknown parsing strategy")

// Strategy turns a document's lines into assignment records. Records are
// returned without a subject; ProcessDocument stamps it. A single run
// applies one strategy to every document.
type Strategy interface {
	// Name returns the strategy identifier ("sectioned" or "typed").
	Name() string

	// Parse returns the records found in lines, in emission order.
	Parse(lines []string) []types.AssignmentRecord
}

// NewStrategy returns the strategy with the given name. An empty name
// selects the sectioned strategy.
func NewStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategySectioned:
		return Sectioned{}, nil
	case StrategyTyped:
		return Typed{}, nil
	}
	return nil, fmt.Errorf("%w %q: use %s or %s", ErrUnknownStrategy, name, StrategySectioned, StrategyTyped)
}
