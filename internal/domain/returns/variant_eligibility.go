package returns

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
)

// VariantEligibility narrows which variants an exchange may swap a return
// item into
type VariantEligibility interface {
	EligibleVariants(ctx context.Context, variant *catalog.Variant) ([]*catalog.Variant, error)
}

// SiblingFinder loads the in-stock variants that share a product with the
// given variant
type SiblingFinder interface {
	InStockSiblings(ctx context.Context, variant *catalog.Variant) ([]*catalog.Variant, error)
}

// SameOptionValue allows exchanges only into sibling variants that match
// the source variant on a configured set of option types. With no
// restrictions configured, every in-stock sibling qualifies. The source
// variant itself is never a candidate.
type SameOptionValue struct {
	restrictions []string
	siblings     SiblingFinder
}

// NewSameOptionValue builds the strategy. Restrictions name option types,
// for example "color" to allow swapping sizes while keeping the color.
func NewSameOptionValue(siblings SiblingFinder, restrictions ...string) *SameOptionValue {
	return &SameOptionValue{restrictions: restrictions, siblings: siblings}
}

// EligibleVariants returns the sibling variants eligible for exchange
func (s *SameOptionValue) EligibleVariants(ctx context.Context, variant *catalog.Variant) ([]*catalog.Variant, error) {
	siblings, err := s.siblings.InStockSiblings(ctx, variant)
	if err != nil {
		return nil, err
	}

	eligible := make([]*catalog.Variant, 0, len(siblings))
	for _, candidate := range siblings {
		if candidate.ID == variant.ID {
			continue
		}
		if s.matchesRestrictions(variant, candidate) {
			eligible = append(eligible, candidate)
		}
	}
	return eligible, nil
}

func (s *SameOptionValue) matchesRestrictions(source, candidate *catalog.Variant) bool {
	for _, optionType := range s.restrictions {
		want := source.OptionValueFor(optionType)
		if want == nil {
			continue
		}
		got := candidate.OptionValueFor(optionType)
		if got == nil || got.Name != want.Name {
			return false
		}
	}
	return true
}
