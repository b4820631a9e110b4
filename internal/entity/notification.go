package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	Id        int64     `db:"id"`
	UserId    uuid.UUID `db:"user_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

type NotificationOutputModel struct {
	Id        int64  `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}
