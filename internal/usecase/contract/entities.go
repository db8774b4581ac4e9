package contract

type TemplateInput struct {
	Name        string
	Description string
	Content     string
	Variables   []string
	IsActive    bool
}

// ShareResult is the simulated WhatsApp delivery of a contract.
type ShareResult struct {
	ContractID string `json:"contract_id"`
	Phone      string `json:"phone"`
	URL        string `json:"url"`
	Message    string `json:"message"`
}
