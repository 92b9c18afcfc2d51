package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldRevision    = "revision"
	FieldExpenses    = "expenses"
	FieldExpenseName = "expense_name"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldBudgetCents = "budget_cents"
	FieldTool        = "tool"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentCharts    = "charts"
	ComponentChat      = "chat"
	ComponentTools     = "tools"
	ComponentAuth      = "auth"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
)

// Error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeStorage    = "storage_error"
	ErrorTypeAuth       = "auth_error"
	ErrorTypeInternal   = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	if requestID != "" {
		f[FieldRequestID] = requestID
	}
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithExpense adds the fields describing a single ledger record.
func (f LogFields) WithExpense(name, category string, amountCents int64) LogFields {
	f[FieldExpenseName] = name
	f[FieldCategory] = category
	f[FieldAmountCents] = amountCents
	return f
}

// WithLedger adds the aggregate fields of a ledger state.
func (f LogFields) WithLedger(revision uint64, expenses int, budgetCents int64) LogFields {
	f[FieldRevision] = revision
	f[FieldExpenses] = expenses
	f[FieldBudgetCents] = budgetCents
	return f
}

func (f LogFields) WithTool(tool string) LogFields {
	f[FieldTool] = tool
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
