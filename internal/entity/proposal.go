package entity

import (
	"time"

	"github.com/google/uuid"
)

type Proposal struct {
	Id           int64      `db:"id"`
	JobId        int64      `db:"job_id"`
	FreelancerId uuid.UUID  `db:"freelancer_id"`
	BidAmount    float64    `db:"bid_amount"`
	TimelineDays int        `db:"timeline_days"`
	CoverLetter  string     `db:"cover_letter"`
	Status       string     `db:"status"`
	Feedback     string     `db:"feedback"`
	ReviewedAt   *time.Time `db:"reviewed_at"`
	ReviewedBy   *uuid.UUID `db:"reviewed_by"`
	RowVersion   int        `db:"row_version"`
	SubmittedAt  time.Time  `db:"submitted_at"`
}

type CreateProposalInput struct {
	JobId        int64     // given
	FreelancerId uuid.UUID // given
	BidAmount    float64   // given
	TimelineDays int       // given
	CoverLetter  string    // given
	Status       string    // should be set: "Submitted"
	SubmittedAt  time.Time // should be set
}

// ProposalReview is the decision stamped on a set of proposals by the job's client.
type ProposalReview struct {
	Status     string
	Feedback   string
	ReviewedBy uuid.UUID
	ReviewedAt time.Time
}

type ProposalOutputModel struct {
	Id           int64   `json:"id"`
	JobId        int64   `json:"jobId"`
	FreelancerId string  `json:"freelancerId"`
	BidAmount    float64 `json:"bidAmount"`
	TimelineDays int     `json:"timelineDays"`
	CoverLetter  string  `json:"coverLetter"`
	Status       string  `json:"status"`
	Feedback     string  `json:"feedback,omitempty"`
	ReviewedAt   string  `json:"reviewedAt,omitempty"`
	ReviewedBy   string  `json:"reviewedBy,omitempty"`
	SubmittedAt  string  `json:"submittedAt"`
}

// AcceptProposalOutputModel is returned when arbitration forms a contract.
type AcceptProposalOutputModel struct {
	Proposal          ProposalOutputModel `json:"proposal"`
	Contract          ContractOutputModel `json:"contract"`
	RejectedProposals []int64             `json:"rejectedProposals"`
}
