package entity

import (
	"freelance-job-board/internal/common"
	"time"

	"github.com/google/uuid"
)

type Contract struct {
	Id                          int64                 `db:"id"`
	JobId                       int64                 `db:"job_id"`
	ProposalId                  int64                 `db:"proposal_id"`
	ClientId                    uuid.UUID             `db:"client_id"`
	FreelancerId                uuid.UUID             `db:"freelancer_id"`
	ContractStatusId            common.ContractStatus `db:"contract_status_id"`
	PaymentAmount               float64               `db:"payment_amount"`
	StartTime                   time.Time             `db:"start_time"`
	EndTime                     *time.Time            `db:"end_time"`
	CompletionRequestedByUserId *uuid.UUID            `db:"completion_requested_by_user_id"`
	CompletionRequestedAt       *time.Time            `db:"completion_requested_at"`
	RowVersion                  int                   `db:"row_version"`
	CreatedAt                   time.Time             `db:"created_at"`
	UpdatedAt                   time.Time             `db:"updated_at"`
}

// Parties returns the client and freelancer bound by the contract.
func (c *Contract) Parties() Parties {
	return Parties{ClientId: c.ClientId, FreelancerId: c.FreelancerId}
}

// Parties identifies the two users bound to a job engagement.
type Parties struct {
	ClientId     uuid.UUID
	FreelancerId uuid.UUID
}

// Other returns the party opposite to userId.
func (p Parties) Other(userId uuid.UUID) uuid.UUID {
	if userId == p.ClientId {
		return p.FreelancerId
	}

	return p.ClientId
}

type CreateContractInput struct {
	JobId         int64
	ProposalId    int64
	ClientId      uuid.UUID
	FreelancerId  uuid.UUID
	PaymentAmount float64
	StartTime     time.Time
	// ContractStatusId is always Pending on creation
}

type ContractOutputModel struct {
	Id                          int64   `json:"id"`
	JobId                       int64   `json:"jobId"`
	ProposalId                  int64   `json:"proposalId"`
	ClientId                    string  `json:"clientId"`
	FreelancerId                string  `json:"freelancerId"`
	ContractStatusId            int     `json:"contractStatusId"`
	ContractStatus              string  `json:"contractStatus"`
	PaymentAmount               float64 `json:"paymentAmount"`
	StartTime                   string  `json:"startTime"`
	EndTime                     string  `json:"endTime,omitempty"`
	CompletionRequestedByUserId string  `json:"completionRequestedByUserId,omitempty"`
	CompletionRequestedAt       string  `json:"completionRequestedAt,omitempty"`
}
