package models

// Result is the scored outcome of one user's one attempt at one quiz.
// The unique index is the authoritative at-most-one-submission guard;
// the service-level pre-check only exists for a friendlier error.
type Result struct {
	BaseModel

	QuizID string  `gorm:"type:uuid;not null;uniqueIndex:idx_result_quiz_user" json:"quiz_id"`
	UserID string  `gorm:"type:uuid;not null;uniqueIndex:idx_result_quiz_user" json:"user_id"`
	Score  float64 `gorm:"not null" json:"score"`

	// Relationships
	Quiz        Quiz         `gorm:"foreignKey:QuizID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User        User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	UserAnswers []UserAnswer `gorm:"foreignKey:ResultID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

type UserAnswer struct {
	BaseModel

	ResultID   string `gorm:"type:uuid;not null;index" json:"result_id"`
	QuestionID string `gorm:"type:uuid;not null" json:"question_id"`
	AnswerID   string `gorm:"type:uuid;not null" json:"answer_id"`

	// Relationships
	Result Result `gorm:"foreignKey:ResultID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
