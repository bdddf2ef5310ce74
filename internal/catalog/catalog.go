package catalog

// ActionType declares how a registry field obtains its value.
type ActionType string

const (
	// ActionAPICall fetches the value from an external endpoint.
	ActionAPICall ActionType = "API_CALL"
	// ActionModelOpen defers to a user-driven modal flow; automatic
	// resolution skips these fields entirely.
	ActionModelOpen ActionType = "MODEL_OPEN"
	// ActionContextAPI reads the value from the caller-supplied clinical
	// context without any network call.
	ActionContextAPI ActionType = "CONTEXT_API"
)

// FieldID of the pseudo-field that always resolves locally to "now".
const FieldCurrentDate = "current_date"

// Actions describes the fetch behavior of a field definition.
type Actions struct {
	Type ActionType `yaml:"type"`
	// API is the endpoint path for API_CALL fields.
	API string `yaml:"api,omitempty"`
	// OncallbackAutofillValue names the payload attribute handed back by a
	// MODEL_OPEN flow.
	OncallbackAutofillValue string `yaml:"oncallback_autofill_value,omitempty"`
}

// CallTime declares when resolution is triggered.
type CallTime struct {
	OnRenderPage   bool `yaml:"on_render_page,omitempty"`
	OnClickElement bool `yaml:"on_click_element,omitempty"`
}

// GroupOf declares the auto-fill cascade: resolving this field also fills the
// listed fields from the same fetched payload.
type GroupOf struct {
	GroupAutofillIDs []string `yaml:"group_autofill_ids,omitempty"`
}

// FieldDef is one static, non-user-editable entry of the field catalog.
type FieldDef struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Category string   `yaml:"category"`
	Actions  Actions  `yaml:"actions"`
	CallTime CallTime `yaml:"call_time,omitempty"`
	GroupOf  GroupOf  `yaml:"group_of,omitempty"`
	// DataPath is the dot-path into the fetched payload holding this field's
	// value, e.g. "latestVitals.temperature".
	DataPath string `yaml:"data_path,omitempty"`
	// ContextKey names the clinical-context attribute for CONTEXT_API fields.
	ContextKey string `yaml:"context_key,omitempty"`
}

// FindingStatus is the toggle state of one physical-exam finding.
type FindingStatus string

const (
	FindingUnset    FindingStatus = ""
	FindingNormal   FindingStatus = "normal"
	FindingAbnormal FindingStatus = "abnormal"
)

// ExamSection is one named body-system section of the physical-exam checklist
// with its fixed finding list, the catalog field it maps onto, and the label
// aliases used for fuzzy target matching.
type ExamSection struct {
	Name      string   `yaml:"name"`
	DataField string   `yaml:"data_field"`
	Aliases   []string `yaml:"aliases,omitempty"`
	Findings  []string `yaml:"findings"`
}
