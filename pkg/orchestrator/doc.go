// Package orchestrator wires flow documents, the operation catalog, request
// validators, renderers and themes into wizard sessions. A Session is the
// host-side state of one wizard run: the step sequencer, the values entered
// so far and the messages to show on the next render.
package orchestrator
