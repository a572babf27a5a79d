package service

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/arcwright/lambda-gateway/internal/domain/model"
)

// Generator mints a fresh InvocationId for each inbound invocation. Minting
// must be globally unique with overwhelming probability in production, or
// under caller control in tests (spec.md §3, invariant 2).
type Generator interface {
	Next() model.InvocationId
}

// UUIDGenerator mints production ids as UUIDv4 strings.
type UUIDGenerator struct{}

// NewUUIDGenerator returns the production id generator.
func NewUUIDGenerator() *UUIDGenerator { return &UUIDGenerator{} }

func (UUIDGenerator) Next() model.InvocationId {
	return model.InvocationId(uuid.NewString())
}

// SequenceGenerator mints deterministic "test_0", "test_1", ... ids, matching
// the id scheme used throughout spec.md §8's end-to-end scenarios.
type SequenceGenerator struct {
	next int
}

// NewSequenceGenerator returns a deterministic generator starting at test_0.
func NewSequenceGenerator() *SequenceGenerator { return &SequenceGenerator{} }

func (g *SequenceGenerator) Next() model.InvocationId {
	id := model.InvocationId("test_" + strconv.Itoa(g.next))
	g.next++
	return id
}
