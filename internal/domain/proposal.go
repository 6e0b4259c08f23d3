package domain

import "strings"

// ProposalStatus is the normalised lifecycle state of a proposal
type ProposalStatus string

const (
	ProposalActive   ProposalStatus = "Active"
	ProposalPassed   ProposalStatus = "Passed"
	ProposalRejected ProposalStatus = "Rejected"
)

// ParseProposalStatus maps free text to a status by substring match.
// Unrecognised text is Active.
func ParseProposalStatus(s string) ProposalStatus {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "pass"), strings.Contains(lower, "executed"):
		return ProposalPassed
	case strings.Contains(lower, "reject"), strings.Contains(lower, "failed"):
		return ProposalRejected
	default:
		return ProposalActive
	}
}

// Proposal is a summary row as listed for a DAO
type Proposal struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Status             ProposalStatus `json:"status"`
	DaoContractAddress string         `json:"dao_contract_address"`
}

// Votes holds tallied vote counts
type Votes struct {
	Yes int64 `json:"yes"`
	No  int64 `json:"no"`
}

// ProposalDetails extends Proposal with the full record
type ProposalDetails struct {
	Proposal
	Description   string `json:"description"`
	Votes         Votes  `json:"votes"`
	CreationBlock int64  `json:"creation_block"`
	Proposer      string `json:"proposer"`
}
