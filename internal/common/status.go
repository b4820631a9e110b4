package common

import "fmt"

// job statuses
const (
	JobOpen       = "Open"
	JobInProgress = "InProgress"
	JobCompleted  = "Completed"
	JobCancelled  = "Cancelled"
)

// proposal statuses
const (
	ProposalSubmitted   = "Submitted"
	ProposalPending     = "Pending"
	ProposalUnderReview = "UnderReview"
	ProposalAccepted    = "Accepted"
	ProposalRejected    = "Rejected"
)

// Proposals in one of these statuses are still competing for the job.
var OpenProposalStatuses = []string{ProposalSubmitted, ProposalPending, ProposalUnderReview}

const (
	PaymentFixed  = "Fixed"
	PaymentHourly = "Hourly"
)

// change request statuses
const (
	ChangeRequestPending  = "Pending"
	ChangeRequestApproved = "Approved"
	ChangeRequestRejected = "Rejected"
	ChangeRequestExpired  = "Expired"
)

type Role string

const (
	RoleNone       Role = ""
	RoleClient     Role = "Client"
	RoleFreelancer Role = "Freelancer"
	RoleSystem     Role = "System"
)

type ContractStatus int

const (
	ContractPending         ContractStatus = 1
	ContractActive          ContractStatus = 2
	ContractPendingApproval ContractStatus = 3
	ContractCompleted       ContractStatus = 4
	ContractCancelled       ContractStatus = 5
)

var contractStatusNames = map[ContractStatus]string{
	ContractPending:         "Pending",
	ContractActive:          "Active",
	ContractPendingApproval: "PendingApproval",
	ContractCompleted:       "Completed",
	ContractCancelled:       "Cancelled",
}

func (s ContractStatus) String() string {
	if name, ok := contractStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("ContractStatus(%d)", int(s))
}

func (s ContractStatus) Valid() bool {
	_, ok := contractStatusNames[s]
	return ok
}

// Terminal statuses admit no further transitions.
func (s ContractStatus) Terminal() bool {
	return s == ContractCompleted || s == ContractCancelled
}

func ParseContractStatus(name string) (ContractStatus, bool) {
	for status, n := range contractStatusNames {
		if n == name {
			return status, true
		}
	}

	return 0, false
}
