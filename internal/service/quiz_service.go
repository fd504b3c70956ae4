package service

import (
	"errors"
	"time"

	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
	CategorySvc  *CategoryService
}

func NewQuizService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository, categorySvc *CategoryService) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		CategorySvc:  categorySvc,
	}
}

// ListByCategory returns the category's quizzes, optionally filtered by
// quiz type, each decorated with counts and tournament state.
func (s *QuizService) ListByCategory(categoryID, userID uint, quizType string) ([]model.QuizView, error) {
	category, err := s.CategorySvc.CategoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	quizzes, err := s.QuizRepo.ListByCategory(categoryID, quizType)
	if err != nil {
		return nil, err
	}
	views := make([]model.QuizView, 0, len(quizzes))
	for _, quiz := range quizzes {
		view, err := s.buildView(&quiz, category.Title, userID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *QuizService) GetInCategory(quizID, categoryID, userID uint) (*model.QuizView, error) {
	category, err := s.CategorySvc.CategoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	quiz, err := s.QuizRepo.FindByIDInCategory(quizID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.buildView(quiz, category.Title, userID)
}

func (s *QuizService) buildView(quiz *model.Quiz, categoryTitle string, userID uint) (*model.QuizView, error) {
	total, err := s.QuizRepo.CountQuestions(quiz.ID)
	if err != nil {
		return nil, err
	}
	totalScore, err := s.QuizRepo.TotalScore(quiz.ID)
	if err != nil {
		return nil, err
	}
	view := &model.QuizView{
		Quiz:               *quiz,
		CategoryTitle:      categoryTitle,
		TotalQuestions:     total,
		TotalScore:         totalScore,
		IsTournamentActive: quiz.IsTournamentActive(time.Now()),
	}
	if userID != 0 {
		latest, err := s.AttemptRepo.LatestForQuiz(userID, quiz.ID)
		if err == nil {
			view.Attempt = &model.AttemptView{QuizAttempt: *latest}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return view, nil
}

func (s *QuizService) Create(quiz *model.Quiz) error {
	if _, err := s.CategorySvc.CategoryRepo.FindByID(quiz.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCategoryNotFound
		}
		return err
	}
	return s.QuizRepo.Create(quiz)
}

func (s *QuizService) Update(quiz *model.Quiz) error {
	if _, err := s.QuizRepo.FindByID(quiz.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	return s.QuizRepo.Update(quiz)
}

func (s *QuizService) Delete(id uint) error {
	if _, err := s.QuizRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	return s.QuizRepo.Delete(id)
}

// AddQuestion creates a question with its options. Order is assigned by
// the model hook when left at zero.
func (s *QuizService) AddQuestion(question *model.Question) error {
	if _, err := s.QuizRepo.FindByID(question.QuizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	return s.QuestionRepo.Create(question)
}

func (s *QuizService) UpdateQuestion(question *model.Question) error {
	if _, err := s.QuestionRepo.FindByID(question.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.QuestionRepo.Update(question)
}

func (s *QuizService) DeleteQuestion(id uint) error {
	if _, err := s.QuestionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.QuestionRepo.Delete(id)
}

// AddOption appends an option to a question. Order auto-assigns in the
// model hook when zero.
func (s *QuizService) AddOption(questionID uint, option *model.AnswerOption) error {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	option.QuestionID = questionID
	return s.QuestionRepo.CreateOption(option)
}

func (s *QuizService) ListOptions(questionID uint) ([]model.AnswerOption, error) {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return s.QuestionRepo.ListOptions(questionID)
}

func (s *QuizService) DeleteOption(id uint) error {
	if err := s.QuestionRepo.DeleteOption(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrOptionNotFound
		}
		return err
	}
	return nil
}

func (s *QuizService) ListQuestions(quizID uint) ([]model.Question, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.QuestionRepo.ListByQuiz(quizID)
}
