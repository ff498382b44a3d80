package models

// StatementAccount is one account line from a DART financial statement.
type StatementAccount struct {
	Name   string `json:"account_nm"`
	Amount string `json:"thstrm_amount"` // current-term amount, comma-grouped
}

// FinancialStatement holds the consolidated statement accounts for one
// business year.
type FinancialStatement struct {
	Status   string             `json:"status"`
	Message  string             `json:"message,omitempty"`
	Accounts []StatementAccount `json:"accounts"`
}
