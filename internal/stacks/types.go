package stacks

// AccountBalance mirrors GET /extended/v1/address/{principal}/balances
type AccountBalance struct {
	STX struct {
		Balance       string `json:"balance"`
		TotalSent     string `json:"total_sent"`
		TotalReceived string `json:"total_received"`
		Locked        string `json:"locked"`
	} `json:"stx"`
	FungibleTokens    map[string]TokenBalance `json:"fungible_tokens"`
	NonFungibleTokens map[string]struct {
		Count string `json:"count"`
	} `json:"non_fungible_tokens"`
}

// TokenBalance is one fungible token holding
type TokenBalance struct {
	Balance       string `json:"balance"`
	TotalSent     string `json:"total_sent"`
	TotalReceived string `json:"total_received"`
}

// ContractInterface mirrors GET /v2/contracts/interface/{principal}/{name}
type ContractInterface struct {
	Functions []ContractFunction `json:"functions"`
	Variables []struct {
		Name   string `json:"name"`
		Access string `json:"access"`
	} `json:"variables"`
	Maps []struct {
		Name string `json:"name"`
	} `json:"maps"`
}

// Function access levels
const (
	AccessPublic   = "public"
	AccessReadOnly = "read_only"
	AccessPrivate  = "private"
)

// ContractFunction describes one function of a contract interface
type ContractFunction struct {
	Name   string `json:"name"`
	Access string `json:"access"`
	Args   []struct {
		Name string `json:"name"`
	} `json:"args"`
}

// HasFunction reports whether the interface declares name with the given access
func (ci *ContractInterface) HasFunction(name, access string) bool {
	if ci == nil {
		return false
	}
	for _, fn := range ci.Functions {
		if fn.Name == name && fn.Access == access {
			return true
		}
	}
	return false
}

type callReadRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

type callReadResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Cause  string `json:"cause,omitempty"`
}

type infoResponse struct {
	StacksTipHeight int64 `json:"stacks_tip_height"`
}
