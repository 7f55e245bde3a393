package trs

// ToolClass describes a class of tools. yevis registers every workflow under
// the single "workflow" class.
type ToolClass struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// DefaultToolClass returns the workflow tool class.
func DefaultToolClass() ToolClass {
	return ToolClass{
		ID:          "workflow",
		Name:        "Workflow",
		Description: "A computational workflow",
	}
}

// MergeToolClasses ensures the workflow class is present, keeping whatever
// classes the registry already listed.
func MergeToolClasses(existing []ToolClass) []ToolClass {
	for _, tc := range existing {
		if tc.ID == "workflow" {
			return existing
		}
	}
	return append(existing, DefaultToolClass())
}
