package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/pkg/ai"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fakeProvider scripts AI responses for grading tests. When err is set, the
// first failTimes calls fail (all calls if failTimes is zero).
type fakeProvider struct {
	name      string
	response  string
	err       error
	failTimes int

	calls   int
	prompts []string
}

func (f *fakeProvider) Name() string {
	return f.name
}

func (f *fakeProvider) Complete(_ context.Context, prompt string, _ ai.CompletionOptions) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)

	if f.err != nil && (f.failTimes == 0 || f.calls <= f.failTimes) {
		return "", f.err
	}

	return f.response, nil
}

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[uint]models.Submission),
		nextID:      1,
	}
}

func (m *memorySubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	results := make([]models.Submission, 0, len(m.submissions))
	for _, submission := range m.submissions {
		if filter.AssignmentID != nil && submission.AssignmentID != *filter.AssignmentID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		results = append(results, submission)
	}
	return results, nil
}

func (m *memorySubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) GetByAssignmentAndStudent(_ context.Context, assignmentID, studentID uint) (models.Submission, error) {
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = m.nextID
	m.nextID++
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) SumScoresForStudent(_ context.Context, studentID uint) (int, error) {
	total := 0
	for _, submission := range m.submissions {
		if submission.StudentID == studentID && submission.Score != nil {
			total += *submission.Score
		}
	}
	return total, nil
}

type memoryAssignmentRepo struct {
	assignments map[uint]models.Assignment
	subs        *memorySubmissionRepo
	nextID      uint
}

func newMemoryAssignmentRepo(subs *memorySubmissionRepo) *memoryAssignmentRepo {
	return &memoryAssignmentRepo{
		assignments: make(map[uint]models.Assignment),
		subs:        subs,
		nextID:      1,
	}
}

func (m *memoryAssignmentRepo) List(_ context.Context, filter repository.AssignmentFilter) ([]models.Assignment, error) {
	results := make([]models.Assignment, 0, len(m.assignments))
	for _, assignment := range m.assignments {
		if filter.TeacherID != nil && assignment.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.OpenAfter != nil && assignment.Deadline.Before(*filter.OpenAfter) {
			continue
		}
		results = append(results, assignment)
	}
	return results, nil
}

func (m *memoryAssignmentRepo) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID
	m.nextID++
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) Update(_ context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	if m.subs != nil {
		for subID, submission := range m.subs.submissions {
			if submission.AssignmentID == id {
				delete(m.subs.submissions, subID)
			}
		}
	}
	return nil
}

func (m *memoryAssignmentRepo) CountSubmissions(_ context.Context, assignmentID uint) (int64, error) {
	if m.subs == nil {
		return 0, nil
	}
	var count int64
	for _, submission := range m.subs.submissions {
		if submission.AssignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

type memoryStudentRepo struct {
	students map[uint]models.Student
}

func newMemoryStudentRepo(students ...models.Student) *memoryStudentRepo {
	repo := &memoryStudentRepo{students: make(map[uint]models.Student)}
	for _, student := range students {
		repo.students[student.ID] = student
	}
	return repo
}

func (m *memoryStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) UpdateGoldCoins(_ context.Context, id uint, total int) error {
	student, ok := m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	student.GoldCoins = total
	m.students[id] = student
	return nil
}
