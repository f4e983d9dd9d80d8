package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denizt/traincenter/internal/app/repositories"
	"github.com/denizt/traincenter/internal/db"
	"github.com/denizt/traincenter/internal/pkg/auth"
	"github.com/denizt/traincenter/internal/pkg/filestorage"
)

// TxRunner executes a function inside a database transaction. Services
// depend on it instead of the pool directly so tests can substitute a
// pass-through runner.
type TxRunner func(ctx context.Context, fn db.TransactionFn) error

// NewTxRunner builds a TxRunner backed by the given pool
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn db.TransactionFn) error {
		return db.WithTransaction(ctx, pool, fn)
	}
}

// Services holds all the service instances
type Services struct {
	AccountService  *AccountService
	AuthService     *AuthService
	StudentService  *StudentService
	RosterService   *RosterService
	TeacherService  *TeacherService
	CourseService   *CourseService
	TrainingService *TrainingService
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, storage filestorage.FileStorage, pool *pgxpool.Pool) *Services {
	runner := NewTxRunner(pool)

	accountService := NewAccountService(repos.AccountRepository, runner)
	studentService := NewStudentService(
		repos.StudentRepository,
		repos.AccountRepository,
		repos.AchievementRepository,
		repos.PhotoRepository,
		accountService,
		storage,
		runner,
	)

	return &Services{
		AccountService:  accountService,
		AuthService:     NewAuthService(repos.AccountRepository, repos.TokenRepository, jwtService),
		StudentService:  studentService,
		RosterService:   NewRosterService(studentService, repos.StudentRepository),
		TeacherService:  NewTeacherService(repos.TeacherRepository, repos.AccountRepository, accountService, runner),
		CourseService:   NewCourseService(repos.CourseRepository, repos.TeacherRepository),
		TrainingService: NewTrainingService(repos.TrainingRepository, repos.CourseRepository, repos.StudentRepository, runner),
	}
}
