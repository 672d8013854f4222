package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/cache"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

// In-memory stores mirroring the repository semantics closely enough for
// service-level tests: same error kinds, same uniqueness guards.

func timeAt(t *testing.T, day string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

type fakeUserStore struct {
	users []*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{}
}

func (f *fakeUserStore) seed(user models.User) *models.User {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.users = append(f.users, &user)
	return &user
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.Conflict("user already exists")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stored := *user
	f.users = append(f.users, &stored)
	return nil
}

func (f *fakeUserStore) ByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserStore) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ListPaginated(_ context.Context, page, limit int) ([]models.User, error) {
	start := (page - 1) * limit
	if start >= len(f.users) {
		return nil, nil
	}
	end := start + limit
	if end > len(f.users) {
		end = len(f.users)
	}
	out := make([]models.User, 0, end-start)
	for _, u := range f.users[start:end] {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, id string, fields map[string]interface{}) error {
	for _, u := range f.users {
		if u.ID != id {
			continue
		}
		if v, ok := fields["first_name"]; ok {
			u.FirstName = v.(string)
		}
		if v, ok := fields["last_name"]; ok {
			u.LastName = v.(string)
		}
		if v, ok := fields["password_hash"]; ok {
			u.PasswordHash = v.(string)
		}
		return nil
	}
	return apperr.NotFound("user not found")
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("user not found")
}

type fakeCompanyStore struct {
	companies []*models.Company
	members   *fakeMembershipStore
}

func newFakeCompanyStore(members *fakeMembershipStore) *fakeCompanyStore {
	return &fakeCompanyStore{members: members}
}

func (f *fakeCompanyStore) seed(company models.Company) *models.Company {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	f.companies = append(f.companies, &company)
	return &company
}

func (f *fakeCompanyStore) Create(_ context.Context, company *models.Company, ownerID string) error {
	for _, c := range f.companies {
		if c.Name == company.Name {
			return apperr.Conflict("company with this name already exists")
		}
	}
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	stored := *company
	f.companies = append(f.companies, &stored)
	if f.members != nil {
		f.members.seedMember(company.ID, ownerID, models.RoleOwner)
	}
	return nil
}

func (f *fakeCompanyStore) ByID(_ context.Context, id string) (*models.Company, error) {
	for _, c := range f.companies {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("company not found")
}

func (f *fakeCompanyStore) NameTaken(_ context.Context, name string) (bool, error) {
	for _, c := range f.companies {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCompanyStore) ListVisible(_ context.Context, page, limit int) ([]models.Company, error) {
	var visible []models.Company
	for _, c := range f.companies {
		if c.Visible {
			visible = append(visible, *c)
		}
	}
	start := (page - 1) * limit
	if start >= len(visible) {
		return nil, nil
	}
	end := start + limit
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end], nil
}

func (f *fakeCompanyStore) ListAll(_ context.Context) ([]models.Company, error) {
	out := make([]models.Company, 0, len(f.companies))
	for _, c := range f.companies {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCompanyStore) Update(_ context.Context, id string, fields map[string]interface{}) error {
	for _, c := range f.companies {
		if c.ID != id {
			continue
		}
		if v, ok := fields["name"]; ok {
			c.Name = v.(string)
		}
		if v, ok := fields["description"]; ok {
			c.Description = v.(string)
		}
		if v, ok := fields["visible"]; ok {
			c.Visible = v.(bool)
		}
		return nil
	}
	return apperr.NotFound("company not found")
}

func (f *fakeCompanyStore) Delete(_ context.Context, id string) error {
	for i, c := range f.companies {
		if c.ID == id {
			f.companies = append(f.companies[:i], f.companies[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("company not found")
}

type fakeMembershipStore struct {
	members []*models.CompanyMember
	actions []*models.Action
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{}
}

func (f *fakeMembershipStore) seedMember(companyID, userID string, role models.Role) *models.CompanyMember {
	member := &models.CompanyMember{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
	}
	f.members = append(f.members, member)
	return member
}

func (f *fakeMembershipStore) Member(_ context.Context, companyID, userID string) (*models.CompanyMember, error) {
	for _, m := range f.members {
		if m.CompanyID == companyID && m.UserID == userID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeMembershipStore) PendingAction(_ context.Context, companyID, userID string, status models.ActionStatus) (*models.Action, error) {
	for _, a := range f.actions {
		if a.CompanyID == companyID && a.UserID == userID && a.Status == status {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeMembershipStore) CreateAction(_ context.Context, action *models.Action) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	stored := *action
	f.actions = append(f.actions, &stored)
	return nil
}

func (f *fakeMembershipStore) TransitionAction(_ context.Context, actionID string, to models.ActionStatus) error {
	for _, a := range f.actions {
		if a.ID == actionID {
			a.Status = to
			return nil
		}
	}
	return apperr.NotFound("action not found")
}

func (f *fakeMembershipStore) AcceptAction(_ context.Context, action *models.Action) error {
	for _, a := range f.actions {
		if a.ID != action.ID {
			continue
		}
		if a.Status != action.Status {
			return apperr.Conflict("action is no longer pending")
		}
		for _, m := range f.members {
			if m.CompanyID == a.CompanyID && m.UserID == a.UserID {
				return apperr.Conflict("user is already a member of this company")
			}
		}
		a.Status = models.ActionAccepted
		f.seedMember(a.CompanyID, a.UserID, models.RoleMember)
		return nil
	}
	return apperr.NotFound("action not found")
}

func (f *fakeMembershipStore) RemoveMember(_ context.Context, companyID, userID string) error {
	for i, m := range f.members {
		if m.CompanyID == companyID && m.UserID == userID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			for _, a := range f.actions {
				if a.CompanyID == companyID && a.UserID == userID && a.Status == models.ActionAccepted {
					a.Status = models.ActionCancelled
				}
			}
			return nil
		}
	}
	return apperr.NotFound("user is not a member of this company")
}

func (f *fakeMembershipStore) UpdateRole(_ context.Context, memberID string, role models.Role) error {
	for _, m := range f.members {
		if m.ID == memberID {
			m.Role = role
			return nil
		}
	}
	return apperr.NotFound("member not found")
}

func (f *fakeMembershipStore) UsersByActionStatus(_ context.Context, companyID string, status models.ActionStatus) ([]models.User, error) {
	var users []models.User
	for _, a := range f.actions {
		if a.CompanyID == companyID && a.Status == status {
			users = append(users, models.User{BaseModel: models.BaseModel{ID: a.UserID}})
		}
	}
	return users, nil
}

func (f *fakeMembershipStore) CompaniesByUserAction(_ context.Context, userID string, status models.ActionStatus) ([]models.Company, error) {
	var companies []models.Company
	for _, a := range f.actions {
		if a.UserID == userID && a.Status == status {
			companies = append(companies, models.Company{BaseModel: models.BaseModel{ID: a.CompanyID}})
		}
	}
	return companies, nil
}

func (f *fakeMembershipStore) Members(_ context.Context, companyID string) ([]models.CompanyMember, error) {
	var out []models.CompanyMember
	for _, m := range f.members {
		if m.CompanyID == companyID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembershipStore) MembersByRole(_ context.Context, companyID string, role models.Role) ([]models.CompanyMember, error) {
	var out []models.CompanyMember
	for _, m := range f.members {
		if m.CompanyID == companyID && m.Role == role {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeQuizStore struct {
	quizzes   []*models.Quiz
	questions map[string][]models.Question
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{questions: make(map[string][]models.Question)}
}

func (f *fakeQuizStore) seed(quiz models.Quiz, questions []models.Question) *models.Quiz {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		questions[i].QuizID = quiz.ID
		for j := range questions[i].Answers {
			if questions[i].Answers[j].ID == "" {
				questions[i].Answers[j].ID = uuid.NewString()
			}
			questions[i].Answers[j].QuestionID = questions[i].ID
		}
	}
	f.quizzes = append(f.quizzes, &quiz)
	f.questions[quiz.ID] = questions
	return &quiz
}

func (f *fakeQuizStore) Create(_ context.Context, quiz *models.Quiz, questions []models.Question, answers map[int][]models.Answer) error {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	stored := *quiz
	f.quizzes = append(f.quizzes, &stored)
	tree := make([]models.Question, len(questions))
	for i, q := range questions {
		q.ID = uuid.NewString()
		q.QuizID = quiz.ID
		for _, a := range answers[i] {
			a.ID = uuid.NewString()
			a.QuestionID = q.ID
			q.Answers = append(q.Answers, a)
		}
		tree[i] = q
	}
	f.questions[quiz.ID] = tree
	return nil
}

func (f *fakeQuizStore) ByID(_ context.Context, id string) (*models.Quiz, error) {
	for _, q := range f.quizzes {
		if q.ID == id {
			copied := *q
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("quiz not found")
}

func (f *fakeQuizStore) QuestionByID(_ context.Context, id string) (*models.Question, error) {
	for _, tree := range f.questions {
		for _, q := range tree {
			if q.ID == id {
				copied := q
				return &copied, nil
			}
		}
	}
	return nil, apperr.NotFound("question not found")
}

func (f *fakeQuizStore) QuestionsWithAnswers(_ context.Context, quizID string) ([]models.Question, error) {
	return append([]models.Question(nil), f.questions[quizID]...), nil
}

func (f *fakeQuizStore) AnswersByQuestion(_ context.Context, questionID string) ([]models.Answer, error) {
	for _, tree := range f.questions {
		for _, q := range tree {
			if q.ID == questionID {
				return append([]models.Answer(nil), q.Answers...), nil
			}
		}
	}
	return nil, apperr.NotFound("question not found")
}

func (f *fakeQuizStore) Update(_ context.Context, quiz *models.Quiz, patch models.QuizPatch) error {
	var stored *models.Quiz
	for _, q := range f.quizzes {
		if q.ID == quiz.ID {
			stored = q
			break
		}
	}
	if stored == nil {
		return apperr.NotFound("quiz not found")
	}
	stored.Title = patch.Title
	stored.Description = patch.Description
	stored.FrequencyDays = patch.FrequencyDays
	*quiz = *stored

	tree := f.questions[quiz.ID]
	for _, qp := range patch.Questions {
		if qp.ID == "" {
			question := models.Question{
				BaseModel:    models.BaseModel{ID: uuid.NewString()},
				QuestionText: qp.QuestionText,
				QuizID:       quiz.ID,
			}
			for _, ap := range qp.Answers {
				question.Answers = append(question.Answers, models.Answer{
					BaseModel:  models.BaseModel{ID: uuid.NewString()},
					AnswerText: ap.AnswerText,
					IsCorrect:  ap.IsCorrect,
					QuestionID: question.ID,
				})
			}
			tree = append(tree, question)
			continue
		}
		for i := range tree {
			if tree[i].ID != qp.ID {
				continue
			}
			tree[i].QuestionText = qp.QuestionText
			if len(qp.Answers) > 0 {
				tree[i].Answers = nil
				for _, ap := range qp.Answers {
					id := ap.ID
					if id == "" {
						id = uuid.NewString()
					}
					tree[i].Answers = append(tree[i].Answers, models.Answer{
						BaseModel:  models.BaseModel{ID: id},
						AnswerText: ap.AnswerText,
						IsCorrect:  ap.IsCorrect,
						QuestionID: tree[i].ID,
					})
				}
			}
		}
	}
	f.questions[quiz.ID] = tree
	return nil
}

func (f *fakeQuizStore) Delete(_ context.Context, id string) error {
	for i, q := range f.quizzes {
		if q.ID == id {
			f.quizzes = append(f.quizzes[:i], f.quizzes[i+1:]...)
			delete(f.questions, id)
			return nil
		}
	}
	return apperr.NotFound("quiz not found")
}

func (f *fakeQuizStore) ListByCompany(_ context.Context, companyID string, page, limit int) ([]models.Quiz, error) {
	var all []models.Quiz
	for _, q := range f.quizzes {
		if q.CompanyID == companyID {
			all = append(all, *q)
		}
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeQuizStore) ListAllByCompany(_ context.Context, companyID string) ([]models.Quiz, error) {
	var all []models.Quiz
	for _, q := range f.quizzes {
		if q.CompanyID == companyID {
			all = append(all, *q)
		}
	}
	return all, nil
}

type fakeResultStore struct {
	results     []*models.Result
	userAnswers []models.UserAnswer
	quizCompany map[string]string
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{quizCompany: make(map[string]string)}
}

func (f *fakeResultStore) seed(quizID, userID string, score float64, createdAt time.Time) *models.Result {
	result := &models.Result{
		BaseModel: models.BaseModel{ID: uuid.NewString(), CreatedAt: createdAt},
		QuizID:    quizID,
		UserID:    userID,
		Score:     score,
	}
	f.results = append(f.results, result)
	return result
}

func (f *fakeResultStore) Exists(_ context.Context, quizID, userID string) (bool, error) {
	for _, r := range f.results {
		if r.QuizID == quizID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResultStore) CreateWithAnswers(_ context.Context, result *models.Result, userAnswers []models.UserAnswer) error {
	for _, r := range f.results {
		if r.QuizID == result.QuizID && r.UserID == result.UserID {
			return apperr.Conflict("you have already submitted this quiz")
		}
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	stored := *result
	f.results = append(f.results, &stored)
	f.userAnswers = append(f.userAnswers, userAnswers...)
	return nil
}

func (f *fakeResultStore) ByQuizAndUser(_ context.Context, quizID, userID string) (*models.Result, error) {
	for _, r := range f.results {
		if r.QuizID == quizID && r.UserID == userID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("result not found")
}

func (f *fakeResultStore) ByUser(_ context.Context, userID string) ([]models.Result, error) {
	var out []models.Result
	for _, r := range f.results {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeResultStore) ByUserInCompany(_ context.Context, userID, companyID string) ([]models.Result, error) {
	var out []models.Result
	for _, r := range f.results {
		if r.UserID == userID && f.quizCompany[r.QuizID] == companyID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeResultStore) ByCompany(_ context.Context, companyID string) ([]models.Result, error) {
	var out []models.Result
	for _, r := range f.results {
		if f.quizCompany[r.QuizID] == companyID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeResultStore) LatestForQuiz(_ context.Context, quizID, userID string) (*models.Result, error) {
	var latest *models.Result
	for _, r := range f.results {
		if r.QuizID != quizID || r.UserID != userID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

type fakeNotificationStore struct {
	notifications []*models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{}
}

func (f *fakeNotificationStore) Create(_ context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	stored := *notification
	f.notifications = append(f.notifications, &stored)
	return nil
}

func (f *fakeNotificationStore) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id, userID string) error {
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.Status = models.NotificationRead
			return nil
		}
	}
	return apperr.NotFound("notification not found")
}

func (f *fakeNotificationStore) UnreadReminderExists(_ context.Context, userID, quizID string) (bool, error) {
	for _, n := range f.notifications {
		if n.UserID == userID && n.QuizID == quizID && n.Status == models.NotificationUnread {
			return true, nil
		}
	}
	return false, nil
}

type fakeProjection struct {
	stored []cache.SubmittedAnswer
	byKey  map[string]*cache.SubmittedAnswer
	err    error
}

func newFakeProjection() *fakeProjection {
	return &fakeProjection{byKey: make(map[string]*cache.SubmittedAnswer)}
}

func (f *fakeProjection) StoreSubmission(_ context.Context, answers []cache.SubmittedAnswer) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, answers...)
	return nil
}

func (f *fakeProjection) Get(_ context.Context, key string) (*cache.SubmittedAnswer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byKey[key], nil
}

func (f *fakeProjection) ScanSubmissions(_ context.Context, _ string) ([]cache.SubmittedAnswer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]cache.SubmittedAnswer(nil), f.stored...), nil
}
