// Package cache holds the derived submission projection in redis. It is a
// best-effort acceleration layer: the relational store stays authoritative
// and consistency-sensitive reads never come through here.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const projectionTTL = 48 * time.Hour

// SubmittedAnswer is the denormalized per-answer record projected after a
// submission commits.
type SubmittedAnswer struct {
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
	UserID     string `json:"user_id"`
	QuizID     string `json:"quiz_id"`
	CompanyID  string `json:"company_id"`
	IsCorrect  bool   `json:"is_correct"`
}

type ProjectionStore struct {
	client *redis.Client
}

func NewProjectionStore(addr, password string, db int) *ProjectionStore {
	return &ProjectionStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
	}
}

func (s *ProjectionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ProjectionStore) Close() error {
	return s.client.Close()
}

// Key layout: user_answer:<user_id>:<quiz_id>:<sequence>.
func submissionKey(userID, quizID string, seq int) string {
	return fmt.Sprintf("user_answer:%s:%s:%d", userID, quizID, seq)
}

// StoreSubmission writes one record per submitted answer with the
// projection TTL. Invoked after the relational commit; a failure here
// leaves the authoritative rows intact.
func (s *ProjectionStore) StoreSubmission(ctx context.Context, answers []SubmittedAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for i, answer := range answers {
		payload, err := json.Marshal(answer)
		if err != nil {
			return err
		}
		pipe.Set(ctx, submissionKey(answer.UserID, answer.QuizID, i), payload, projectionTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *ProjectionStore) Get(ctx context.Context, key string) (*SubmittedAnswer, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var answer SubmittedAnswer
	if err := json.Unmarshal(payload, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

// ScanSubmissions walks keys matching the pattern and decodes each record.
// Callers must tolerate this view lagging the relational store.
func (s *ProjectionStore) ScanSubmissions(ctx context.Context, pattern string) ([]SubmittedAnswer, error) {
	var answers []SubmittedAnswer
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		answer, err := s.Get(ctx, iter.Val())
		if err != nil {
			return nil, err
		}
		if answer != nil {
			answers = append(answers, *answer)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return answers, nil
}

// UserQuizPattern matches every projected answer of one submission.
func UserQuizPattern(userID, quizID string) string {
	return fmt.Sprintf("user_answer:%s:%s:*", userID, quizID)
}

// UserPattern matches every projected answer of one user.
func UserPattern(userID string) string {
	return fmt.Sprintf("user_answer:%s:*", userID)
}
