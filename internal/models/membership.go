package models

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type CompanyMember struct {
	BaseModel

	CompanyID string `gorm:"type:uuid;not null;uniqueIndex:idx_member_company_user" json:"company_id"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_member_company_user" json:"user_id"`
	Role      Role   `gorm:"type:varchar(20);not null" json:"role"`

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
