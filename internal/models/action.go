package models

type ActionStatus string

const (
	ActionInvited   ActionStatus = "INVITED"
	ActionRequested ActionStatus = "REQUESTED"
	ActionAccepted  ActionStatus = "ACCEPTED"
	ActionRejected  ActionStatus = "REJECTED"
	ActionCancelled ActionStatus = "CANCELLED"
)

// Terminal reports whether the status admits no further transitions.
// Retrying after a terminal status requires a fresh Action row.
func (s ActionStatus) Terminal() bool {
	return s == ActionAccepted || s == ActionRejected || s == ActionCancelled
}

// Action is a unified invite-or-join-request record between a user and a
// company, disambiguated by its initial status.
type Action struct {
	BaseModel

	Status    ActionStatus `gorm:"type:varchar(20);not null" json:"status"`
	CompanyID string       `gorm:"type:uuid;not null;index" json:"company_id"`
	UserID    string       `gorm:"type:uuid;not null;index" json:"user_id"`

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
