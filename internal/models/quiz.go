package models

type Quiz struct {
	BaseModel

	Title         string `gorm:"size:100;not null" json:"title"`
	Description   string `gorm:"size:255" json:"description"`
	FrequencyDays int    `gorm:"not null" json:"frequency_days"`
	CompanyID     string `gorm:"type:uuid;not null;index" json:"company_id"`

	// Relationships
	Company   Company    `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Results   []Result   `gorm:"foreignKey:QuizID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

type Question struct {
	BaseModel

	QuestionText string `gorm:"size:255;not null" json:"question_text"`
	QuizID       string `gorm:"type:uuid;not null;index" json:"quiz_id"`

	// Relationships
	Quiz    Quiz     `gorm:"foreignKey:QuizID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"answers,omitempty"`
}

type Answer struct {
	BaseModel

	AnswerText string `gorm:"size:255;not null" json:"answer_text"`
	IsCorrect  bool   `gorm:"not null" json:"is_correct"`
	QuestionID string `gorm:"type:uuid;not null;index" json:"question_id"`

	// Relationships
	Question Question `gorm:"foreignKey:QuestionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
