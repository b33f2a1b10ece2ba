package model

import (
	"time"

	"gorm.io/gorm"
)

type Survey struct {
	ID          string         `gorm:"primarykey;type:text" json:"id"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Active      bool           `json:"active" gorm:"not null"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:SurveyID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
