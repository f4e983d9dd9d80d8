package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	AccountRepository     *AccountRepository
	TokenRepository       *TokenRepository
	StudentRepository     *StudentRepository
	AchievementRepository *AchievementRepository
	PhotoRepository       *PhotoRepository
	TeacherRepository     *TeacherRepository
	CourseRepository      *CourseRepository
	TrainingRepository    *TrainingRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AccountRepository:     NewAccountRepository(db),
		TokenRepository:       NewTokenRepository(db),
		StudentRepository:     NewStudentRepository(db),
		AchievementRepository: NewAchievementRepository(db),
		PhotoRepository:       NewPhotoRepository(db),
		TeacherRepository:     NewTeacherRepository(db),
		CourseRepository:      NewCourseRepository(db),
		TrainingRepository:    NewTrainingRepository(db),
	}
}
