// Package processor provides a modular framework for normalizing module
// results with configurable processor chains.
package processor

import (
	"fmt"

	"github.com/andrej220/modexec/pkg/value"
)

const (
	ProcessorTypeStripInvocation string = "strip_invocation"
	ProcessorTypeStripKeys       string = "strip_keys"
)

// InvocationKey carries the module's echo of its own arguments. It is not
// reproducible between runs and is never part of a normalized result.
const InvocationKey = "invocation"

// Processor defines the interface for transforming a decoded result.
type Processor interface {
	Process(value.Value) (value.Value, error)
	Name() string
}

// ProcessorChain manages a collection of processors and applies them in sequence.
type ProcessorChain struct {
	processors map[string]Processor
}

func NewProcessorChain() *ProcessorChain {
	pc := &ProcessorChain{
		processors: make(map[string]Processor),
	}
	pc.registerDefaults()
	return pc
}

func (pc *ProcessorChain) registerDefaults() {
	pc.Register(&StripKeysProcessor{Keys: []string{InvocationKey}, name: ProcessorTypeStripInvocation})
}

// Register adds a processor to the chain.
func (pc *ProcessorChain) Register(p Processor) {
	pc.processors[p.Name()] = p
}

// Process applies the named processors to v in order. Unknown names fail
// before anything runs.
func (pc *ProcessorChain) Process(v value.Value, processorNames ...string) (value.Value, error) {
	for _, name := range processorNames {
		if _, exists := pc.processors[name]; !exists {
			return value.Value{}, fmt.Errorf("processor %q not registered", name)
		}
	}
	result := v
	for _, name := range processorNames {
		var err error
		result, err = pc.processors[name].Process(result)
		if err != nil {
			return value.Value{}, fmt.Errorf("%s processor failed: %w", name, err)
		}
	}
	return result, nil
}

// StripKeysProcessor removes top-level keys from an object result.
// Non-object values pass through untouched.
type StripKeysProcessor struct {
	Keys []string
	name string
}

func (p *StripKeysProcessor) Name() string {
	if p.name == "" {
		return ProcessorTypeStripKeys
	}
	return p.name
}

func (p *StripKeysProcessor) Process(v value.Value) (value.Value, error) {
	m := v.Map()
	if m == nil {
		return v, nil
	}
	for _, k := range p.Keys {
		m.Delete(k)
	}
	return v, nil
}
