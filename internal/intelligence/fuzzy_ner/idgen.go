package fuzzy_ner

import (
	"fmt"
	"sync"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/common"
)

// IDGenerator hands out entity identifiers.
type IDGenerator interface {
	Next() string
}

const (
	IDGeneratorUUID     = "uuid"
	IDGeneratorSequence = "sequence"
)

// UUIDGenerator issues random UUID v4 identifiers, as "<Prefix>-<uuid>" when
// Prefix is set.
type UUIDGenerator struct {
	Prefix string
}

// Next implements IDGenerator.
func (g UUIDGenerator) Next() string { return common.GenerateID(g.Prefix) }

// SequenceGenerator issues "<prefix>-0001", "<prefix>-0002", ... It is safe
// for concurrent use.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator returns a generator starting at 1. An empty prefix
// defaults to "ent".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "ent"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Next implements IDGenerator.
func (g *SequenceGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// IDGeneratorFor resolves a generator by configured name. prefix is passed
// to the generator; the sequence generator defaults it to "ent".
func IDGeneratorFor(name, prefix string) (IDGenerator, error) {
	switch name {
	case "", IDGeneratorUUID:
		return UUIDGenerator{Prefix: prefix}, nil
	case IDGeneratorSequence:
		return NewSequenceGenerator(prefix), nil
	}
	return nil, errors.New(errors.ErrCodeUnknownPolicy, "unknown id generator").WithDetail("id_generator=" + name)
}
