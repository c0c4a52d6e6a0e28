package modulecontent

// SaveModuleRequest contains parameters for saving a module's content.
//
// ModuleID nil means "create": the repository assigns the real identifier.
// ProvisionalID is the identifier the editor guessed before the record
// existed so uploads could start early; when it is set and differs from the
// assigned identifier, the save relocates every asset under the provisional
// prefix. It is always passed explicitly, never inferred from ambient state.
type SaveModuleRequest struct {
	ModuleID      *int64 `json:"module_id,omitempty"`
	ProvisionalID int64  `json:"provisional_id,omitempty"`

	Title          string     `json:"title"`
	Slug           string     `json:"slug,omitempty"`
	Kind           ModuleKind `json:"kind"`
	PassMarks      int        `json:"pass_marks"`
	LinkedModuleID *int64     `json:"linked_module_id,omitempty"`

	// TotalMarks is accepted as a display cache only; the persisted value is
	// always recomputed from the assessment section's quiz elements.
	TotalMarks int `json:"total_marks,omitempty"`

	Document *ContentDocument `json:"document"`

	Publish bool `json:"publish,omitempty"`
}
