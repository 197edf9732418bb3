package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Domain actions that do not map onto plain CRUD.
	ActionAdjust   Action = "adjust"   // stock movements
	ActionAssign   Action = "assign"   // truck/driver assignment on orders
	ActionPrint    Action = "print"    // backend PDFs
	ActionCheckout Action = "checkout" // POS
	ActionSend     Action = "send"     // push notifications
	ActionExport   Action = "export"
)
