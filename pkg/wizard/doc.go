// Package wizard implements the step sequencer that drives multi-step forms.
//
// A Sequencer owns a single integer, the active step index, and bounds it
// against the step count the host supplied on its latest evaluation. Hosts
// call Evaluate (or Flow.SetSteps) on every render so that a shrinking step
// list, or an index pushed out of range through SetStep, is clamped before it
// is ever reported. Navigation never fails: out-of-range requests are clamped
// or ignored so the wizard always stays displayable.
//
// The sequencer never evaluates form validity itself. Hosts that gate the
// "Next" action on a form pass the validity flag through AdvanceIf.
package wizard
