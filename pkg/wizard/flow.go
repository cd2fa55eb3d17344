package wizard

import "sort"

// Step describes one page of a wizard. Content is opaque to the sequencer; it
// is whatever the host renders for the step (a form section, a component).
type Step[T any] struct {
	Title   string
	Order   int
	Content T
}

// Flow pairs a Sequencer with the step list the host supplied most recently.
// The list is replaced wholesale on every SetSteps call and is never mutated
// by the flow.
type Flow[T any] struct {
	seq   *Sequencer
	steps []Step[T]
}

// NewFlow builds a flow over steps, ordered by Step.Order.
func NewFlow[T any](steps []Step[T], options ...Option) *Flow[T] {
	f := &Flow[T]{seq: NewSequencer(options...)}
	f.SetSteps(steps)
	return f
}

// SetSteps replaces the step list and reconciles the active index against it.
// Steps sort by Order ascending; equal orders keep their supplied position.
func (f *Flow[T]) SetSteps(steps []Step[T]) {
	ordered := make([]Step[T], len(steps))
	copy(ordered, steps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	f.steps = ordered
	f.seq.Evaluate(len(ordered))
}

// Sequencer exposes the underlying sequencer.
func (f *Flow[T]) Sequencer() *Sequencer {
	return f.seq
}

// Steps returns the ordered step list.
func (f *Flow[T]) Steps() []Step[T] {
	return f.steps
}

// Len reports the number of steps.
func (f *Flow[T]) Len() int {
	return len(f.steps)
}

// Index reports the active index after reconciling with the current list.
func (f *Flow[T]) Index() int {
	return f.seq.Evaluate(len(f.steps))
}

// Active returns the active step. ok is false when the flow has no steps.
func (f *Flow[T]) Active() (step Step[T], ok bool) {
	if len(f.steps) == 0 {
		return step, false
	}
	return f.steps[f.Index()], true
}

// Next advances when valid is true and returns the resulting index.
func (f *Flow[T]) Next(valid bool) int {
	f.seq.Evaluate(len(f.steps))
	f.seq.AdvanceIf(valid)
	return f.Index()
}

// Back retreats one step and returns the resulting index.
func (f *Flow[T]) Back() int {
	f.seq.Evaluate(len(f.steps))
	f.seq.Retreat()
	return f.Index()
}

// Jump moves to index, clamped against the current list.
func (f *Flow[T]) Jump(index int) int {
	f.seq.SetStep(index)
	return f.Index()
}

// HasNext reports whether a step follows the active one.
func (f *Flow[T]) HasNext() bool {
	return f.seq.CanAdvance(len(f.steps))
}

// HasPrev reports whether a step precedes the active one.
func (f *Flow[T]) HasPrev() bool {
	f.seq.Evaluate(len(f.steps))
	return f.seq.CanRetreat()
}

// IsLast reports whether the active step is the final one.
func (f *Flow[T]) IsLast() bool {
	return len(f.steps) > 0 && !f.HasNext()
}

// Progress returns the indicator markers for the current position.
func (f *Flow[T]) Progress() []Marker {
	markers := Progress(f.Index(), len(f.steps))
	for i := range markers {
		markers[i].Title = f.steps[i].Title
	}
	return markers
}
