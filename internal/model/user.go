package model

import "time"

type User struct {
	ID        int64           `json:"id"`
	Email     Visible[string] `json:"email"`
	Phone     Visible[string] `json:"phone"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	IsTutor   bool            `json:"is_tutor"`
	Credits   CreditAmount    `json:"credits"` // в сотых долях кредита, никогда не уходит в минус
	CreatedAt time.Time       `json:"created_at"`
}
