package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type Job struct {
	Id          int64      `db:"id"`
	ClientId    uuid.UUID  `db:"client_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Budget      float64    `db:"budget"`
	PaymentType string     `db:"payment_type"`
	Deadline    *time.Time `db:"deadline"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// service + repo input model
type CreateJobInput struct {
	ClientId    uuid.UUID  // given
	Title       string     // given
	Description string     // given
	Budget      float64    // given
	PaymentType string     // given
	Deadline    *time.Time // optional
	Status      string     // should be set: "Open"
	CreatedAt   time.Time  // should be set
}

// controller model
type JobOutputModel struct {
	Id          int64   `json:"id"`
	ClientId    string  `json:"clientId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	PaymentType string  `json:"paymentType"`
	Deadline    string  `json:"deadline,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}
