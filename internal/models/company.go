package models

// Company has no owner column: ownership is the OWNER membership row,
// created together with the company.
type Company struct {
	BaseModel

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Visible     bool   `gorm:"not null;default:true" json:"visible"`

	// Relationships
	Members []CompanyMember `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Actions []Action        `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Quizzes []Quiz          `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
