package models

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

type Notification struct {
	BaseModel

	Text   string             `gorm:"size:255;not null" json:"text"`
	Status NotificationStatus `gorm:"type:varchar(20);not null;default:'UNREAD'" json:"status"`
	UserID string             `gorm:"type:uuid;not null;index" json:"user_id"`
	QuizID string             `gorm:"type:uuid;index" json:"quiz_id,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
