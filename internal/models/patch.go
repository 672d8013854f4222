package models

// Patch structures enumerate exactly which fields a partial update may
// touch. An empty ID on a question or answer means "create new"; a present
// ID means "update in place". Omitted entries are retained.

type AnswerPatch struct {
	ID         string `json:"id,omitempty"`
	AnswerText string `json:"answer_text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionPatch struct {
	ID           string        `json:"id,omitempty"`
	QuestionText string        `json:"question_text" binding:"required"`
	Answers      []AnswerPatch `json:"answers"`
}

type QuizPatch struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	FrequencyDays int             `json:"frequency_days" binding:"required,min=1"`
	Questions     []QuestionPatch `json:"questions"`
}
