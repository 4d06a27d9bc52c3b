package models

import "time"

type Staff struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `json:"company_id"`
	Company   Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"company"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	// Cor de exibição na agenda
	Color string `gorm:"size:7;default:'#4F46E5'" json:"color"`

	// Expediente próprio (opcional; vazio = herda o da empresa)
	WorkingWeekdays string `gorm:"size:20" json:"working_weekdays"`
	StartTime       string `gorm:"size:5" json:"start_time"`
	EndTime         string `gorm:"size:5" json:"end_time"`

	Active bool `gorm:"default:true" json:"active"`

	Services []Service `gorm:"many2many:staff_services;" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
