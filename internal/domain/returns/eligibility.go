package returns

import (
	"time"
)

// EligibilityValidator decides whether a return item may be returned or
// exchanged. Implementations must be stateless with respect to the item.
type EligibilityValidator interface {
	// EligibleForReturn reports whether the item passes this policy
	EligibleForReturn(item *ReturnItem) bool
	// RequiresManualIntervention reports whether the item needs a human look
	RequiresManualIntervention(item *ReturnItem) bool
	// Errors returns policy failures keyed by rule name
	Errors(item *ReturnItem) map[string]string
}

// DefaultEligibilityValidator runs an ordered chain of validators.
// Eligibility requires every validator to pass; manual intervention is
// flagged when any validator asks for it. Error maps are merged in chain
// order: on key collision the later validator's message wins. That
// precedence is deliberate and relied upon by deployment-specific chains
// that append overriding policies.
type DefaultEligibilityValidator struct {
	validators []EligibilityValidator
}

// NewDefaultEligibilityValidator builds the chain from an ordered validator
// list. The list comes from configuration; distinct deployments inject
// distinct chains.
func NewDefaultEligibilityValidator(validators ...EligibilityValidator) *DefaultEligibilityValidator {
	return &DefaultEligibilityValidator{validators: validators}
}

// EligibleForReturn is true only if every validator in the chain passes
func (v *DefaultEligibilityValidator) EligibleForReturn(item *ReturnItem) bool {
	for _, validator := range v.validators {
		if !validator.EligibleForReturn(item) {
			return false
		}
	}
	return true
}

// RequiresManualIntervention is true if any validator in the chain flags it
func (v *DefaultEligibilityValidator) RequiresManualIntervention(item *ReturnItem) bool {
	for _, validator := range v.validators {
		if validator.RequiresManualIntervention(item) {
			return true
		}
	}
	return false
}

// Errors merges every validator's errors; later validators overwrite
// earlier ones on key collision
func (v *DefaultEligibilityValidator) Errors(item *ReturnItem) map[string]string {
	merged := make(map[string]string)
	for _, validator := range v.validators {
		for key, message := range validator.Errors(item) {
			merged[key] = message
		}
	}
	return merged
}

// DefaultReturnWindow is how long after purchase a return stays eligible
const DefaultReturnWindow = 90 * 24 * time.Hour

// TimeSincePurchase rejects returns outside the configured window
type TimeSincePurchase struct {
	window time.Duration
	now    func() time.Time
}

// NewTimeSincePurchase creates the policy with the given return window
func NewTimeSincePurchase(window time.Duration) *TimeSincePurchase {
	return &TimeSincePurchase{window: window, now: time.Now}
}

// EligibleForReturn is true while the purchase is within the window
func (v *TimeSincePurchase) EligibleForReturn(item *ReturnItem) bool {
	return item.PurchasedAt.Add(v.window).After(v.now())
}

// RequiresManualIntervention always returns false for this policy
func (v *TimeSincePurchase) RequiresManualIntervention(_ *ReturnItem) bool {
	return false
}

// Errors reports the window failure, if any
func (v *TimeSincePurchase) Errors(item *ReturnItem) map[string]string {
	if v.EligibleForReturn(item) {
		return map[string]string{}
	}
	return map[string]string{
		"number_of_days": "Return item is outside the eligible time period",
	}
}

// RMARequired rejects return items that lack a return merchandise
// authorization
type RMARequired struct{}

// EligibleForReturn is true when the item carries an RMA
func (RMARequired) EligibleForReturn(item *ReturnItem) bool {
	return item.ReturnAuthorizationID != nil
}

// RequiresManualIntervention always returns false for this policy
func (RMARequired) RequiresManualIntervention(_ *ReturnItem) bool {
	return false
}

// Errors reports the missing RMA, if any
func (v RMARequired) Errors(item *ReturnItem) map[string]string {
	if v.EligibleForReturn(item) {
		return map[string]string{}
	}
	return map[string]string{
		"rma_required": "Return item requires a return merchandise authorization",
	}
}
