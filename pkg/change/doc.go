// Package change provides the change-detection propagation tree.
//
// A Detector owns the binding records of one view and an ordered list of
// child detectors. DetectChanges checks a detector's own records against
// its context and then descends into its children in order, so a parent
// view is always checked before the views attached beneath it.
//
// Tree shape changes only through InsertChild, AddChild and Remove.
package change
