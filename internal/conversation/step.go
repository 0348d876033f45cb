package conversation

// Step identifies where a sender's dialog currently is. Every flow is a
// small tree of steps ending in session removal; the engine's dispatch
// switch is exhaustive over these values.
type Step int

const (
	StepNone Step = iota

	// Filter by code
	StepFilterAwaitCode
	StepFilterRetry

	// Add product
	StepAddPerishable
	StepAddCategory
	StepAddDetails
	StepAddPackage
	StepAddUnitCost
	StepAddAnother

	// Update product
	StepUpdateAwaitCode
	StepUpdateRetry
	StepUpdateField
	StepUpdateValue
	StepUpdateConfirm

	// Delete product
	StepDeleteAwaitCode
	StepDeleteRetry
	StepDeleteConfirm

	// Stock entry
	StepEntryAwaitCode
	StepEntryRetry
	StepEntryDetails
	StepEntryDuplicate
	StepEntryAnother

	// Stock exit
	StepExitAwaitCode
	StepExitRetry
	StepExitDetails
	StepExitDuplicate
	StepExitAnother
)

func (s Step) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepFilterAwaitCode:
		return "filter/await-code"
	case StepFilterRetry:
		return "filter/retry"
	case StepAddPerishable:
		return "add/perishable"
	case StepAddCategory:
		return "add/category"
	case StepAddDetails:
		return "add/details"
	case StepAddPackage:
		return "add/package"
	case StepAddUnitCost:
		return "add/unit-cost"
	case StepAddAnother:
		return "add/another"
	case StepUpdateAwaitCode:
		return "update/await-code"
	case StepUpdateRetry:
		return "update/retry"
	case StepUpdateField:
		return "update/field"
	case StepUpdateValue:
		return "update/value"
	case StepUpdateConfirm:
		return "update/confirm"
	case StepDeleteAwaitCode:
		return "delete/await-code"
	case StepDeleteRetry:
		return "delete/retry"
	case StepDeleteConfirm:
		return "delete/confirm"
	case StepEntryAwaitCode:
		return "entry/await-code"
	case StepEntryRetry:
		return "entry/retry"
	case StepEntryDetails:
		return "entry/details"
	case StepEntryDuplicate:
		return "entry/duplicate"
	case StepEntryAnother:
		return "entry/another"
	case StepExitAwaitCode:
		return "exit/await-code"
	case StepExitRetry:
		return "exit/retry"
	case StepExitDetails:
		return "exit/details"
	case StepExitDuplicate:
		return "exit/duplicate"
	case StepExitAnother:
		return "exit/another"
	}
	return "unknown"
}
