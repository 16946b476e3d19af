package errors

import "slices"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// DocPath is the module document describing every registered code. Each
// code has a section anchored at its lowercased name.
const DocPath = "docs/errors.md"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is outside its allowed range.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Command failed",
		Detail:   "The command could not complete.",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "File not found",
		Detail:   "The file passed on the command line does not exist.",
	},

	// ============================================
	// Structure Errors (E200-E209)
	// ============================================

	"E200": {
		Category: CategoryHydration,
		Message:  "Invalid operation",
		Detail:   "The operation is not allowed in the port's current hydration state.",
	},
	"E201": {
		Category: CategoryStructure,
		Message:  "Index out of range",
		Detail:   "The index is outside the valid range for the current list of views.",
	},
	"E202": {
		Category: CategoryStructure,
		Message:  "Empty collection",
		Detail:   "The port has no attached views.",
	},

	// ============================================
	// Scenario Errors (E210-E219)
	// ============================================

	"E210": {
		Category: CategoryScenario,
		Message:  "Invalid scenario",
		Detail:   "The scenario document could not be parsed or references unknown names.",
	},
	"E211": {
		Category: CategoryScenario,
		Message:  "Unknown step",
		Detail:   "The scenario step names an operation that does not exist.",
	},
	"E212": {
		Category: CategoryScenario,
		Message:  "Expectation failed",
		Detail:   "The port state after a step did not match the expectation.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
