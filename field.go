package formrig

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldSpec declares a field. It is a plain value: NewForm turns each spec
// into a Field controller owned by the form.
type FieldSpec struct {
	// Label identifies the field within its form and prefixes its errors.
	Label string

	// Value is the initial text.
	Value string

	// Configuration holds the rules, placeholder and transform.
	Configuration Configuration

	// ErrorStrategy renders broken rules. The zero value is Append.
	ErrorStrategy ErrorStrategy

	// Validator replaces the default validator. ErrorStrategy is ignored
	// when set.
	Validator Validator

	// Debounce coalesces writes arriving within the interval. Zero
	// validates on every write.
	Debounce time.Duration

	// ShowRequirement appends the lowercased requirement label to
	// DisplayLabel, e.g. "Full Name (required)".
	ShowRequirement bool

	Type    FieldType
	Picker  PickerConfiguration
	Options []string
}

// fieldState is the committed result of a validation pass.
type fieldState struct {
	value          string
	valid          bool
	err            string
	broken         []Rule
	firstTimeEmpty bool
}

// Field is the controller of a single text input. All state transitions run
// on the owning form's scheduler; readers always observe a committed pass.
type Field struct {
	label           string
	debounce        time.Duration
	showRequirement bool
	typ             FieldType
	picker          PickerConfiguration
	options         []string
	initialValue    string
	validator       Validator
	sched           Scheduler
	logger          zerolog.Logger

	mu            sync.RWMutex
	value         string // Latest written text
	state         fieldState
	configuration Configuration
	history       History
	observers     map[uint64]func(FieldSnapshot)
	nextObserver  uint64
	owner         *Form // Non-owning; used only to request aggregation
	index         int
	closed        bool

	// Scheduler-owned.
	firstTimeEmpty bool
	pending        Timer
	generation     uint64
	initialized    bool
}

func newField(spec FieldSpec, sched Scheduler, logger zerolog.Logger) *Field {
	validator := spec.Validator
	if validator == nil {
		validator = NewValidator(spec.ErrorStrategy, WithValidatorLogger(logger))
	}

	return &Field{
		label:           spec.Label,
		debounce:        spec.Debounce,
		showRequirement: spec.ShowRequirement,
		typ:             spec.Type,
		picker:          spec.Picker,
		options:         append([]string(nil), spec.Options...),
		initialValue:    spec.Value,
		validator:       validator,
		sched:           sched,
		logger:          logger.With().Str("field", spec.Label).Logger(),
		value:           spec.Value,
		state:           fieldState{value: spec.Value, firstTimeEmpty: true},
		configuration:   spec.Configuration,
		history:         History{Configuration: spec.Configuration.Name()},
		firstTimeEmpty:  true,
	}
}

// Label returns the field's identity.
func (f *Field) Label() string { return f.label }

// DisplayLabel returns the label, followed by the lowercased requirement
// label when the field shows its requirement. It follows the current
// configuration.
func (f *Field) DisplayLabel() string {
	if !f.showRequirement {
		return f.label
	}
	return f.label + " (" + cases.Lower(language.Und).String(f.RequirementLabel()) + ")"
}

// Equal reports whether both fields carry the same label.
func (f *Field) Equal(other *Field) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.label == other.label
}

// Type returns the kind of input the field is rendered as.
func (f *Field) Type() FieldType { return f.typ }

// Picker returns the picker behavior of picker fields.
func (f *Field) Picker() PickerConfiguration { return f.picker }

// Debounce returns the quiet interval before a write is validated.
func (f *Field) Debounce() time.Duration { return f.debounce }

// Options returns a copy of the picker options.
func (f *Field) Options() []string { return append([]string(nil), f.options...) }

// InitialValue returns the value the field was declared with.
func (f *Field) InitialValue() string { return f.initialValue }

// Value returns the latest written text, which may still be waiting for
// its validation pass.
func (f *Field) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Valid reports the outcome of the last pass.
func (f *Field) Valid() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.valid
}

// Error returns the display error of the last pass. It is empty while the
// field is pristine or valid.
func (f *Field) Error() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.err
}

// BrokenRules returns the rules broken in the last pass, in rule order.
func (f *Field) BrokenRules() []Rule {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Rule(nil), f.state.broken...)
}

// FirstTimeEmpty reports whether the field is still pristine.
func (f *Field) FirstTimeEmpty() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.firstTimeEmpty
}

// Configuration returns the configuration in effect.
func (f *Field) Configuration() Configuration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.configuration
}

// RequirementLabel returns the current configuration's requirement label.
func (f *Field) RequirementLabel() string {
	return f.Configuration().RequirementLabel()
}

// History returns the passes recorded under the current configuration.
func (f *Field) History() History {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.history.clone()
}

// Snapshot returns the committed state of the last pass.
func (f *Field) Snapshot() FieldSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

func (f *Field) snapshotLocked() FieldSnapshot {
	display := f.label
	if f.showRequirement {
		display = f.label + " (" + cases.Lower(language.Und).String(f.configuration.RequirementLabel()) + ")"
	}
	return FieldSnapshot{
		Label:            f.label,
		DisplayLabel:     display,
		Value:            f.state.value,
		Valid:            f.state.valid,
		Error:            f.state.err,
		BrokenRules:      append([]Rule(nil), f.state.broken...),
		FirstTimeEmpty:   f.state.firstTimeEmpty,
		RequirementLabel: f.configuration.RequirementLabel(),
		Configuration:    f.configuration.Name(),
		Type:             f.typ,
	}
}

// Subscribe registers fn to receive the field's snapshot after every
// completed pass. fn runs on the form's scheduler. The returned function
// removes the subscription.
func (f *Field) Subscribe(fn func(FieldSnapshot)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || fn == nil {
		return func() {}
	}
	if f.observers == nil {
		f.observers = make(map[uint64]func(FieldSnapshot))
	}
	id := f.nextObserver
	f.nextObserver++
	f.observers[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.observers, id)
	}
}

// SetValue writes text into the field. Writes equal to the current value
// are ignored. Validation follows on the scheduler once the debounce
// window closes.
func (f *Field) SetValue(text string) {
	f.mu.Lock()
	if f.closed || text == f.value {
		f.mu.Unlock()
		return
	}
	f.value = text
	f.mu.Unlock()

	f.sched.Dispatch(func() { f.onWrite(text) })
}

// ReplaceConfiguration swaps the configuration, drops any pending debounced
// pass, resets the history and validates the current value against the new
// rules. The pristine latch is kept.
func (f *Field) ReplaceConfiguration(cfg Configuration) {
	f.sched.Dispatch(func() {
		if f.isClosed() {
			return
		}
		f.cancelPending()

		f.mu.Lock()
		previous := f.configuration.Name()
		f.configuration = cfg
		f.history = History{Configuration: cfg.Name()}
		f.mu.Unlock()

		f.logger.Debug().
			Str("from", previous).
			Str("to", cfg.Name()).
			Msg("configuration replaced")
		f.pass()
	})
}

// Validate runs a pass over the current value without waiting for a write.
func (f *Field) Validate() {
	f.sched.Dispatch(func() {
		if f.isClosed() {
			return
		}
		f.pass()
	})
}

func (f *Field) isClosed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

// onWrite runs on the scheduler for every accepted write. The latch follows
// the written text, not the current value, which a later write may have
// already replaced.
func (f *Field) onWrite(text string) {
	if f.isClosed() {
		return
	}
	if text != "" {
		f.firstTimeEmpty = false
	}

	f.cancelPending()
	if f.debounce <= 0 {
		f.pass()
		return
	}

	generation := f.generation
	f.pending = f.sched.AfterFunc(f.debounce, func() {
		// A timer may fire after being superseded; its task is still queued.
		if generation != f.generation || f.isClosed() {
			return
		}
		f.pending = nil
		f.pass()
	})
}

func (f *Field) cancelPending() {
	f.generation++
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
}

// initialize runs the first pass of a field attached to a form. The initial
// value does not count as a write, so the field stays pristine.
func (f *Field) initialize() {
	if f.initialized || f.isClosed() {
		return
	}
	f.initialized = true
	f.pass()
}

// touch leaves the pristine state without a write.
func (f *Field) touch() {
	f.firstTimeEmpty = false
}

// pass validates the current value, applies the transform and commits.
func (f *Field) pass() {
	f.mu.RLock()
	original := f.value
	cfg := f.configuration
	f.mu.RUnlock()

	value := original
	st := f.evaluate(cfg, value)

	transformed := false
	if next := cfg.Apply(value); next != value {
		value = next
		transformed = true
		if value != "" {
			f.firstTimeEmpty = false
		}
		st = f.evaluate(cfg, value)
	}

	f.commit(original, st, transformed)
}

func (f *Field) evaluate(cfg Configuration, value string) fieldState {
	result := f.validator.Validate(cfg.Rules(), value)

	st := fieldState{
		value:          value,
		valid:          result.Valid,
		broken:         result.Broken,
		firstTimeEmpty: f.firstTimeEmpty,
	}
	if !st.firstTimeEmpty && !st.valid {
		st.err = f.validator.GenerateError(result.Broken)
	}
	return st
}

func (f *Field) commit(original string, st fieldState, transformed bool) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	// Only store the transformed text if no newer write arrived meanwhile.
	if f.value == original {
		f.value = st.value
	}
	f.state = st
	f.history.record(PassRecord{
		At:          f.sched.Now(),
		Valid:       st.valid,
		BrokenRules: RuleNames(st.broken),
		Transformed: transformed,
	})
	snapshot := f.snapshotLocked()
	observers := make([]func(FieldSnapshot), 0, len(f.observers))
	for _, fn := range f.observers {
		observers = append(observers, fn)
	}
	owner := f.owner
	passes := f.history.Passes
	f.mu.Unlock()

	f.logger.Debug().
		Bool("valid", st.valid).
		Strs("broken", RuleNames(st.broken)).
		Bool("pristine", st.firstTimeEmpty).
		Int("pass", passes).
		Msg("field validated")

	for _, fn := range observers {
		fn(snapshot)
	}
	if owner != nil {
		owner.fieldChanged(f)
	}
}

// attach sets the back-reference to form. It reports false when the field
// was already attached to it.
func (f *Field) attach(form *Form, index int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owner == form && f.index == index {
		return false
	}
	f.owner = form
	f.index = index
	return true
}

// detach drops the back-reference and every subscription.
func (f *Field) detach() {
	f.mu.Lock()
	f.owner = nil
	f.observers = nil
	f.closed = true
	f.mu.Unlock()
}
