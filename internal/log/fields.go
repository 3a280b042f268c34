package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldPlan        = "plan"
	FieldYear        = "year"
	FieldAccount     = "account"
	FieldBank        = "bank"
	FieldMonth       = "month"
	FieldDay         = "day"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentBudget  = "budget"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentReport  = "report"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpExpand   = "expand"
	OpCorrect  = "correct"
	OpConfirm  = "confirm"
	OpTransfer = "transfer"
	OpSnapshot = "snapshot"
	OpRestore  = "restore"
	OpRender   = "render"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
