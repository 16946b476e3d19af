// Package errors provides structured, coded errors for the view-slot runtime.
//
// Every error carries a registered code (e.g. "E200") that maps to:
//   - A category (structure, hydration, config, scenario, cli)
//   - A short message
//   - A longer explanation and a section in docs/errors.md
//
// Errors are built from the registry and decorated with the failing
// operation, details and a fix suggestion. Sentinel errors can be wrapped
// so callers keep using errors.Is:
//
//	err := errors.New("E201").
//	    WithOp("viewport.insert").
//	    WithDetail("index 4 is outside [0, 2]").
//	    Wrap(ErrIndexOutOfRange)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E201: Index out of range
//	//
//	//   op: viewport.insert
//	//
//	//   index 4 is outside [0, 2]
//	//
//	//   Learn more: docs/errors.md#e201
package errors
