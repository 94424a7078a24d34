package models

// AuditAction constants represent actions to be logged. The generic
// interceptor additionally emits PREFIX_METHOD labels for mutating routes.
const (
	AuditActionLogin             = "LOGIN"
	AuditActionLoginFailed       = "LOGIN_FAILED"
	AuditActionLogout            = "LOGOUT"
	AuditActionAccountUpdate     = "ACCOUNT_UPDATE"
	AuditActionAccountDelete     = "ACCOUNT_DELETE"
	AuditActionCharacterUpdate   = "CHARACTER_UPDATE"
	AuditActionCharacterDelete   = "CHARACTER_DELETE"
	AuditActionGuildUpdate       = "GUILD_UPDATE"
	AuditActionGuildDelete       = "GUILD_DELETE"
	AuditActionItemUpdate        = "ITEM_UPDATE"
	AuditActionItemDelete        = "ITEM_DELETE"
	AuditActionArenaUpdate       = "ARENA_UPDATE"
	AuditActionTransactionUpdate = "TRANSACTION_UPDATE"
)

// Sentinel admin names used when no identity is available.
const (
	AdminAnonymous = "anonymous"
	AdminUnknown   = "unknown"
)

// AuditEntry is one immutable record of an operator action. The JSON shape
// is the durable on-disk contract (one entry per line in the daily files)
// and must stay readable against existing log archives.
type AuditEntry struct {
	Timestamp string                 `json:"timestamp"`
	Action    string                 `json:"action"`
	Admin     string                 `json:"admin"`
	Target    *AuditTarget           `json:"target,omitempty"`
	Changes   map[string]FieldChange `json:"changes,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IP        string                 `json:"ip"`
	UserAgent string                 `json:"userAgent,omitempty"`
}

// AuditTarget identifies the entity an action affected.
type AuditTarget struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// FieldChange captures a single field-level before/after pair.
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// AuditFilter bounds an audit log read, dates in YYYY-MM-DD form,
// inclusive; either side may be empty for an open range.
type AuditFilter struct {
	StartDate string
	EndDate   string
}
