package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
)

// RewardService keeps a student's gold-coin balance consistent with their
// scored submissions.
type RewardService interface {
	Recalculate(ctx context.Context, studentID uint) (int, error)
}

type rewardService struct {
	submissions repository.SubmissionRepository
	students    repository.StudentRepository
	logger      zerolog.Logger
}

// NewRewardService constructs the reward ledger.
func NewRewardService(submissions repository.SubmissionRepository, students repository.StudentRepository, logger zerolog.Logger) RewardService {
	return &rewardService{
		submissions: submissions,
		students:    students,
		logger:      logger.With().Str("component", "reward_service").Logger(),
	}
}

// Recalculate sums every non-null score the student holds and writes the new
// total onto the student record. A full recomputation avoids drift from
// rescoring or teacher overrides; classroom volumes make the scan cheap.
func (s *rewardService) Recalculate(ctx context.Context, studentID uint) (int, error) {
	total, err := s.submissions.SumScoresForStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}

	if err := s.students.UpdateGoldCoins(ctx, studentID, total); err != nil {
		return 0, err
	}

	s.logger.Info().Uint("student_id", studentID).Int("gold_coins", total).Msg("reward balance recalculated")

	return total, nil
}
