package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldPeriod     = "period"
	FieldYear       = "year"
	FieldCategoryID = "category_id"
	FieldCategory   = "category"
	FieldSpending   = "spending_index"
	FieldAmount     = "amount_minor"
	FieldBackend    = "backend"
	FieldPath       = "path"
	FieldLanguage   = "language"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldCacheHit   = "cache_hit"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentSession = "session"
	ComponentStorage = "storage"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
	ComponentI18n    = "i18n"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpCreate   = "create"
	OpRename   = "rename"
	OpDelete   = "delete"
	OpAllocate = "allocate"
	OpSpend    = "spend"
	OpEdit     = "edit"
	OpRemove   = "remove"
	OpMigrate  = "migrate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithPeriod adds the YYYY-MM period field
func (f LogFields) WithPeriod(period string) LogFields {
	f[FieldPeriod] = period
	return f
}

// WithCategory adds category id and name fields
func (f LogFields) WithCategory(id uint32, name string) LogFields {
	f[FieldCategoryID] = id
	f[FieldCategory] = name
	return f
}

// WithAmount adds an amount in minor units
func (f LogFields) WithAmount(minor int64) LogFields {
	f[FieldAmount] = minor
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
