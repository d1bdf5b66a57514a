package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/dto"
	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/repository"
)

// StudentQuizService is the student-facing quiz surface. Students only
// ever see published quizzes in classes they are enrolled in, and never
// see an answer key while an attempt is open.
type StudentQuizService interface {
	ListQuizzes(studentID int64) ([]dto.StudentQuizResponse, error)
	GetQuiz(studentID int64, quizID string) (*dto.StudentQuizDetailResponse, error)
	StartAttempt(studentID int64, quizID string) (*dto.StartAttemptResponse, error)
	Answer(studentID int64, attemptID, questionID string, answer model.AnswerValue) (*model.Attempt, error)
	CompleteAttempt(studentID int64, attemptID string) (*dto.CompleteAttemptResponse, error)
	GetAttempt(studentID int64, attemptID string) (*dto.AttemptDetailResponse, error)
}

type studentQuizService struct {
	classes   repository.ClassRepository
	quizzes   repository.QuizRepository
	questions repository.QuestionRepository
	attempts  repository.AttemptRepository
}

func NewStudentQuizService(
	classes repository.ClassRepository,
	quizzes repository.QuizRepository,
	questions repository.QuestionRepository,
	attempts repository.AttemptRepository,
) StudentQuizService {
	return &studentQuizService{classes: classes, quizzes: quizzes, questions: questions, attempts: attempts}
}

func (s *studentQuizService) ListQuizzes(studentID int64) ([]dto.StudentQuizResponse, error) {
	classes, err := s.classes.ListStudentClasses(studentID)
	if err != nil {
		return nil, err
	}
	result := []dto.StudentQuizResponse{}
	for _, class := range classes {
		quizzes, err := s.quizzes.ListQuizzes(class.ClassID)
		if err != nil {
			return nil, err
		}
		for _, quiz := range quizzes {
			if quiz.Status != model.QuizPublished {
				continue
			}
			resp, err := s.decorate(quiz, class.Title, studentID)
			if err != nil {
				return nil, err
			}
			result = append(result, resp)
		}
	}
	return result, nil
}

// decorate builds the student view of one quiz: attempt count and best
// score are the student's own, not class-wide.
func (s *studentQuizService) decorate(quiz *model.Quiz, courseTitle string, studentID int64) (dto.StudentQuizResponse, error) {
	attempts, err := s.attempts.ListAttemptsForStudent(studentID, quiz.QuizID)
	if err != nil {
		return dto.StudentQuizResponse{}, err
	}
	var best *int
	for _, a := range attempts {
		if a.Score != nil && (best == nil || *a.Score > *best) {
			best = a.Score
		}
	}
	return dto.StudentQuizResponse{
		QuizID:           quiz.QuizID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		CourseID:         quiz.ClassID,
		CourseTitle:      courseTitle,
		DueAt:            quiz.DueAt,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		AttemptCount:     len(attempts),
		BestScore:        best,
		PassingScore:     quiz.PassingScore,
	}, nil
}

// requireVisibleQuiz hides drafts and closed quizzes behind NotFound and
// enforces enrollment.
func (s *studentQuizService) requireVisibleQuiz(studentID int64, quizID string) (*model.Quiz, *model.Class, error) {
	quiz, err := s.quizzes.GetQuiz(quizID)
	if err != nil {
		return nil, nil, err
	}
	if quiz.Status != model.QuizPublished {
		return nil, nil, fmt.Errorf("quiz %s is not published: %w", quizID, model.ErrNotFound)
	}
	enrolled, err := s.classes.IsStudentEnrolled(studentID, quiz.ClassID)
	if err != nil {
		return nil, nil, err
	}
	if !enrolled {
		return nil, nil, fmt.Errorf("student %d is not enrolled in class %s: %w", studentID, quiz.ClassID, model.ErrForbidden)
	}
	class, err := s.classes.GetClass(quiz.ClassID)
	if err != nil {
		return nil, nil, err
	}
	return quiz, class, nil
}

func (s *studentQuizService) GetQuiz(studentID int64, quizID string) (*dto.StudentQuizDetailResponse, error) {
	quiz, class, err := s.requireVisibleQuiz(studentID, quizID)
	if err != nil {
		return nil, err
	}
	resp, err := s.decorate(quiz, class.Title, studentID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListAttemptsForStudent(studentID, quizID)
	if err != nil {
		return nil, err
	}
	return &dto.StudentQuizDetailResponse{Quiz: resp, Attempts: attempts}, nil
}

func (s *studentQuizService) StartAttempt(studentID int64, quizID string) (*dto.StartAttemptResponse, error) {
	if _, _, err := s.requireVisibleQuiz(studentID, quizID); err != nil {
		return nil, err
	}
	attempt, err := s.attempts.StartAttempt(quizID, studentID)
	if err != nil {
		return nil, err
	}
	views, err := s.questionViews(quizID)
	if err != nil {
		return nil, err
	}
	return &dto.StartAttemptResponse{Attempt: attempt, Questions: views}, nil
}

// questionViews strips the answer key off every question of a quiz.
func (s *studentQuizService) questionViews(quizID string) ([]dto.QuestionView, error) {
	questions, err := s.questions.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}
	views := make([]dto.QuestionView, 0, len(questions))
	for _, q := range questions {
		var view dto.QuestionView
		if err := copier.Copy(&view, q); err != nil {
			log.Error().Err(err).Str("question_id", q.QuestionID).Msg("Failed to map question")
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// requireOwnAttempt rejects any attempt that belongs to another student.
func (s *studentQuizService) requireOwnAttempt(studentID int64, attemptID string) (*model.Attempt, error) {
	attempt, err := s.attempts.GetAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentTgID != studentID {
		return nil, fmt.Errorf("attempt %s belongs to another student: %w", attemptID, model.ErrForbidden)
	}
	return attempt, nil
}

func (s *studentQuizService) Answer(studentID int64, attemptID, questionID string, answer model.AnswerValue) (*model.Attempt, error) {
	if _, err := s.requireOwnAttempt(studentID, attemptID); err != nil {
		return nil, err
	}
	return s.attempts.RecordAnswer(attemptID, questionID, answer)
}

func (s *studentQuizService) CompleteAttempt(studentID int64, attemptID string) (*dto.CompleteAttemptResponse, error) {
	if _, err := s.requireOwnAttempt(studentID, attemptID); err != nil {
		return nil, err
	}
	attempt, err := s.attempts.CompleteAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetQuiz(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	var passed *bool
	if quiz.PassingScore != nil && attempt.Score != nil {
		p := *attempt.Score >= *quiz.PassingScore
		passed = &p
	}
	return &dto.CompleteAttemptResponse{Attempt: attempt, Passed: passed}, nil
}

func (s *studentQuizService) GetAttempt(studentID int64, attemptID string) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.requireOwnAttempt(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetQuiz(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	// The answer key is only revealed once the attempt is sealed.
	var questions any
	if attempt.Status == model.AttemptCompleted {
		full, err := s.questions.ListQuestions(attempt.QuizID)
		if err != nil {
			return nil, err
		}
		questions = full
	} else {
		views, err := s.questionViews(attempt.QuizID)
		if err != nil {
			return nil, err
		}
		questions = views
	}
	return &dto.AttemptDetailResponse{Attempt: attempt, Quiz: quiz, Questions: questions}, nil
}
