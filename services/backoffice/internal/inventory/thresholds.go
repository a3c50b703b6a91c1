package inventory

import (
	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/staffops/pkg"
	"github.com/appetiteclub/staffops/pkg/enums/unit"
)

const (
	DefaultLowThreshold      = 8
	DefaultCriticalThreshold = 3
)

// Thresholds are inclusive upper bounds on the delivered total.
type Thresholds struct {
	Low      int `json:"low" bson:"low"`
	Critical int `json:"critical" bson:"critical"`
}

func (t Thresholds) Valid() bool {
	return t.Critical >= 0 && t.Low >= t.Critical
}

// ThresholdPolicy resolves the thresholds for an item: the item's own
// reorder levels first, then its unit's, then the configured default.
type ThresholdPolicy struct {
	Default Thresholds
	ByUnit  map[string]Thresholds
}

func DefaultThresholdPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		Default: Thresholds{Low: DefaultLowThreshold, Critical: DefaultCriticalThreshold},
		ByUnit: map[string]Thresholds{
			unit.Units.Package.Code(): {Low: 4, Critical: 2},
			unit.Units.Can.Code():     {Low: 4, Critical: 2},
			unit.Units.Pieces.Code():  {Low: 50, Critical: 20},
			unit.Units.Sleeve.Code():  {Low: 4, Critical: 1},
		},
	}
}

// PolicyFromConfig applies inventory.thresholds.low and
// inventory.thresholds.critical over the defaults.
func PolicyFromConfig(config *aqm.Config) ThresholdPolicy {
	if config == nil {
		return DefaultThresholdPolicy()
	}
	return NewThresholdPolicy(
		pkg.IntOrDef(config, "inventory.thresholds.low", DefaultLowThreshold),
		pkg.IntOrDef(config, "inventory.thresholds.critical", DefaultCriticalThreshold),
	)
}

// NewThresholdPolicy uses low and critical as the fallback thresholds,
// keeping the built in ones when the pair is inconsistent.
func NewThresholdPolicy(low, critical int) ThresholdPolicy {
	policy := DefaultThresholdPolicy()
	configured := Thresholds{Low: low, Critical: critical}
	if configured.Valid() {
		policy.Default = configured
	}
	return policy
}

func (p ThresholdPolicy) For(item *Item) Thresholds {
	if item.Thresholds != nil && item.Thresholds.Valid() {
		return *item.Thresholds
	}
	if t, ok := p.ByUnit[item.Unit]; ok {
		return t
	}
	return p.Default
}

func (p ThresholdPolicy) Classify(item *Item) string {
	return Classify(item, p.For(item))
}

// Classify grades the delivered total against t.
func Classify(item *Item, t Thresholds) string {
	total := item.Sealed + item.Loose
	switch {
	case total <= t.Critical:
		return StatusCritical
	case total <= t.Low:
		return StatusLow
	default:
		return StatusGood
	}
}
