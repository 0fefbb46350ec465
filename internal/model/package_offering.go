package model

import "time"

// PackageType описывает вид пакета занятий (разовое, 5 занятий, 10 занятий...).
type PackageType struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	MaximumSessions int       `json:"maximum_sessions"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}

// PackageOffering — предложение пакета от конкретного репетитора со скидкой.
type PackageOffering struct {
	ID              int64     `json:"id"`
	TutorID         int64     `json:"tutor_id"`
	PackageTypeID   int64     `json:"package_type_id"`
	DiscountPercent int       `json:"discount_percent"` // 0-100, множитель цены за сессию
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	PackageType *PackageType `json:"package_type,omitempty"`
}
