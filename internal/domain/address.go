package domain

// ContractAddress identifies a deployed contract as <principal>.<contract-name>
type ContractAddress struct {
	Principal    string `json:"principal"`
	ContractName string `json:"contract_name"`
}

// String renders the address in its canonical dotted form
func (a ContractAddress) String() string {
	return a.Principal + "." + a.ContractName
}
