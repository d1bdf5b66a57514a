package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/dto"
	"github.com/classpad/classpad/internal/model"
	"github.com/classpad/classpad/internal/repository"
)

// TeacherQuizService is the teacher-facing quiz surface: every operation
// verifies the acting teacher owns the class the quiz belongs to before
// touching the registry.
type TeacherQuizService interface {
	CreateQuiz(teacherID int64, req dto.CreateQuizRequest) (*model.Quiz, error)
	ListQuizzes(teacherID int64, classID string) ([]dto.QuizSummaryResponse, error)
	GetQuizDetail(teacherID int64, quizID string) (*dto.TeacherQuizDetailResponse, error)
	UpdateQuiz(teacherID int64, quizID string, req dto.UpdateQuizRequest) (*model.Quiz, error)
	AddQuestion(teacherID int64, req dto.CreateQuestionRequest) (*model.Question, error)
	UpdateQuestion(teacherID int64, questionID string, req dto.UpdateQuestionRequest) (*model.Question, error)
	DeleteQuestion(teacherID int64, questionID string) error
}

type teacherQuizService struct {
	classes   repository.ClassRepository
	quizzes   repository.QuizRepository
	questions repository.QuestionRepository
	attempts  repository.AttemptRepository
}

func NewTeacherQuizService(
	classes repository.ClassRepository,
	quizzes repository.QuizRepository,
	questions repository.QuestionRepository,
	attempts repository.AttemptRepository,
) TeacherQuizService {
	return &teacherQuizService{classes: classes, quizzes: quizzes, questions: questions, attempts: attempts}
}

func (s *teacherQuizService) requireOwnedClass(classID string, teacherID int64) (*model.Class, error) {
	return requireClassOwner(s.classes, classID, teacherID)
}

func (s *teacherQuizService) CreateQuiz(teacherID int64, req dto.CreateQuizRequest) (*model.Quiz, error) {
	if _, err := s.requireOwnedClass(req.ClassID, teacherID); err != nil {
		return nil, err
	}
	return s.quizzes.CreateQuiz(req.ClassID, req.Title, req.Description, req.TimeLimitMinutes, req.DueAt, req.PassingScore)
}

func (s *teacherQuizService) ListQuizzes(teacherID int64, classID string) ([]dto.QuizSummaryResponse, error) {
	if _, err := s.requireOwnedClass(classID, teacherID); err != nil {
		return nil, err
	}
	quizzes, err := s.quizzes.ListQuizzes(classID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.QuizSummaryResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		var resp dto.QuizSummaryResponse
		if err := copier.Copy(&resp, quiz); err != nil {
			log.Error().Err(err).Str("quiz_id", quiz.QuizID).Msg("Failed to map quiz")
			continue
		}
		questions, err := s.questions.ListQuestions(quiz.QuizID)
		if err != nil {
			return nil, err
		}
		attempts, err := s.attempts.ListAttemptsForQuiz(quiz.QuizID)
		if err != nil {
			return nil, err
		}
		resp.QuestionCount = len(questions)
		resp.AttemptCount = len(attempts)
		result = append(result, resp)
	}
	return result, nil
}

func (s *teacherQuizService) GetQuizDetail(teacherID int64, quizID string) (*dto.TeacherQuizDetailResponse, error) {
	quiz, err := s.quizzes.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOwnedClass(quiz.ClassID, teacherID); err != nil {
		return nil, err
	}
	questions, err := s.questions.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListAttemptsForQuiz(quizID)
	if err != nil {
		return nil, err
	}

	byStudent := map[int64][]*model.Attempt{}
	var order []int64
	for _, a := range attempts {
		if _, seen := byStudent[a.StudentTgID]; !seen {
			order = append(order, a.StudentTgID)
		}
		byStudent[a.StudentTgID] = append(byStudent[a.StudentTgID], a)
	}

	students := make([]dto.QuizStudentStats, 0, len(order))
	for _, id := range order {
		name := fmt.Sprintf("Student %d", id)
		if student, err := s.classes.GetStudent(id); err == nil {
			name = student.Name
		}
		var best *int
		for _, a := range byStudent[id] {
			if a.Score != nil && (best == nil || *a.Score > *best) {
				best = a.Score
			}
		}
		students = append(students, dto.QuizStudentStats{
			StudentID:    id,
			StudentName:  name,
			AttemptCount: len(byStudent[id]),
			BestScore:    best,
		})
	}

	return &dto.TeacherQuizDetailResponse{Quiz: quiz, Questions: questions, Students: students}, nil
}

func (s *teacherQuizService) UpdateQuiz(teacherID int64, quizID string, req dto.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOwnedClass(quiz.ClassID, teacherID); err != nil {
		return nil, err
	}
	return s.quizzes.UpdateQuiz(quizID, repository.QuizUpdate{
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		DueAt:            req.DueAt,
		PassingScore:     req.PassingScore,
		Status:           req.Status,
	})
}

func (s *teacherQuizService) AddQuestion(teacherID int64, req dto.CreateQuestionRequest) (*model.Question, error) {
	quiz, err := s.quizzes.GetQuiz(req.QuizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOwnedClass(quiz.ClassID, teacherID); err != nil {
		return nil, err
	}
	return s.questions.AddQuestion(req.QuizID, req.QuestionText, req.QuestionType, req.Options, req.CorrectAnswer, req.Points)
}

func (s *teacherQuizService) UpdateQuestion(teacherID int64, questionID string, req dto.UpdateQuestionRequest) (*model.Question, error) {
	if err := s.requireOwnedQuestion(questionID, teacherID); err != nil {
		return nil, err
	}
	return s.questions.UpdateQuestion(questionID, repository.QuestionUpdate{
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
	})
}

func (s *teacherQuizService) DeleteQuestion(teacherID int64, questionID string) error {
	if err := s.requireOwnedQuestion(questionID, teacherID); err != nil {
		return err
	}
	return s.questions.DeleteQuestion(questionID)
}

func (s *teacherQuizService) requireOwnedQuestion(questionID string, teacherID int64) error {
	question, err := s.questions.GetQuestion(questionID)
	if err != nil {
		return err
	}
	quiz, err := s.quizzes.GetQuiz(question.QuizID)
	if err != nil {
		return err
	}
	if _, err := s.requireOwnedClass(quiz.ClassID, teacherID); err != nil {
		return err
	}
	return nil
}
