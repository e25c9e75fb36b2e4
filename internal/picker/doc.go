// Package picker is the interactive commit message chooser.
//
// [Model] is a Bubble Tea state machine: it shows a spinner while candidates
// load, then a list the user moves through with the arrow keys or j/k. Enter
// accepts, r asks for fresh suggestions and esc dismisses. Each request gets
// an ID; dismissing or regenerating cancels the request in flight and any
// reply carrying an older ID is dropped.
//
// [Selector] runs the model on the controlling terminal so the chosen message
// can still be written to stdout.
package picker
