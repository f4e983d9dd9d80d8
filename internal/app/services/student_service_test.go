package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
)

// racingAccountRepo claims a rival account under the resolved username right
// before the first insert, the way a concurrent request would.
type racingAccountRepo struct {
	*fakeAccountRepo
	raced bool
}

func (r *racingAccountRepo) CreateTx(ctx context.Context, tx pgx.Tx, account *models.Account) error {
	if !r.raced {
		r.raced = true
		r.fakeAccountRepo.add(&models.Account{Username: account.Username, Role: account.Role})
	}
	return r.fakeAccountRepo.CreateTx(ctx, tx, account)
}

func photoFile(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

func newStudentServiceForTest() (*StudentService, *fakeStudentRepo, *fakeAccountRepo, *fakePhotoRepo) {
	accountRepo := newFakeAccountRepo()
	studentRepo := newFakeStudentRepo()
	achievementRepo := newFakeAchievementRepo()
	photoRepo := newFakePhotoRepo()
	accountService := NewAccountService(accountRepo, passthroughTx)
	storage := &fakeStorage{}

	svc := NewStudentService(studentRepo, accountRepo, achievementRepo, photoRepo,
		accountService, storage, passthroughTx)
	return svc, studentRepo, accountRepo, photoRepo
}

func TestCreateStudent(t *testing.T) {
	t.Run("provisions account and contact stub", func(t *testing.T) {
		svc, studentRepo, accountRepo, _ := newStudentServiceForTest()

		student, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
			StudentID:      "S2023001",
			FirstName:      "伟",
			LastName:       "张",
			Department:     "计算机系",
			Grade:          "2023级",
			EnrollmentDate: "2023-09-01",
			Status:         "在读",
		})
		if err != nil {
			t.Fatalf("CreateStudent() error = %v", err)
		}

		if student.Account == nil {
			t.Fatal("expected the provisioned account attached")
		}
		if student.Account.Username != "student_S2023001" {
			t.Errorf("username = %q, want %q", student.Account.Username, "student_S2023001")
		}
		if student.Account.Role != models.RoleStudent {
			t.Errorf("role = %q, want student", student.Account.Role)
		}
		if student.Status != models.StudentStatusActive {
			t.Errorf("status = %q, want active", student.Status)
		}
		if student.Contact == nil || student.Contact.StudentID != student.ID {
			t.Error("expected an empty contact stub linked to the student")
		}
		if _, err := accountRepo.GetByUsername(context.Background(), "student_S2023001"); err != nil {
			t.Error("account was not persisted")
		}
		if _, err := studentRepo.GetContact(context.Background(), student.ID); err != nil {
			t.Error("contact stub was not persisted")
		}
	})

	t.Run("duplicate student ID is rejected", func(t *testing.T) {
		svc, studentRepo, _, _ := newStudentServiceForTest()
		studentRepo.add(&models.Student{StudentID: "S2023001", AccountID: 99})

		_, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
			StudentID: "S2023001",
			FirstName: "伟",
		})
		if !errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			t.Fatalf("CreateStudent() error = %v, want ErrStudentIDAlreadyExists", err)
		}
	})

	t.Run("adopts an existing account", func(t *testing.T) {
		svc, _, accountRepo, _ := newStudentServiceForTest()
		account := accountRepo.add(&models.Account{Username: "existing", Role: models.RoleStudent})

		student, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
			StudentID: "S2023002",
			AccountID: &account.ID,
		})
		if err != nil {
			t.Fatalf("CreateStudent() error = %v", err)
		}
		if student.AccountID != account.ID {
			t.Errorf("accountId = %d, want adopted %d", student.AccountID, account.ID)
		}
	})

	t.Run("account already linked to a student", func(t *testing.T) {
		svc, studentRepo, accountRepo, _ := newStudentServiceForTest()
		account := accountRepo.add(&models.Account{Username: "linked", Role: models.RoleStudent})
		studentRepo.add(&models.Student{StudentID: "S1", AccountID: account.ID})

		_, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
			StudentID: "S2",
			AccountID: &account.ID,
		})
		if err == nil {
			t.Fatal("CreateStudent() expected conflict error, got nil")
		}
	})

	t.Run("recovers when a concurrent insert claims the resolved name", func(t *testing.T) {
		accountRepo := &racingAccountRepo{fakeAccountRepo: newFakeAccountRepo()}
		studentRepo := newFakeStudentRepo()
		accountService := NewAccountService(accountRepo, passthroughTx)
		svc := NewStudentService(studentRepo, accountRepo, newFakeAchievementRepo(), newFakePhotoRepo(),
			accountService, &fakeStorage{}, passthroughTx)

		student, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
			StudentID:      "S2023009",
			FirstName:      "伟",
			EnrollmentDate: "2023-09-01",
		})
		if err != nil {
			t.Fatalf("CreateStudent() error = %v", err)
		}
		if student.Account.Username != "student_S2023009_1" {
			t.Errorf("username = %q, want %q after losing the name race",
				student.Account.Username, "student_S2023009_1")
		}
		if _, err := studentRepo.GetByStudentID(context.Background(), "S2023009"); err != nil {
			t.Error("student was not persisted after the rerun")
		}
	})

	t.Run("invalid enrollment date", func(t *testing.T) {
		svc, _, _, _ := newStudentServiceForTest()

		_, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
			StudentID:      "S2023003",
			FirstName:      "伟",
			EnrollmentDate: "not-a-date",
		})
		if err == nil {
			t.Fatal("CreateStudent() expected error for bad date, got nil")
		}
	})
}

func TestDeleteStudent(t *testing.T) {
	svc, studentRepo, accountRepo, _ := newStudentServiceForTest()
	account := accountRepo.add(&models.Account{Username: "student_S1", Role: models.RoleStudent})
	student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: account.ID})

	if err := svc.DeleteStudent(context.Background(), student.ID); err != nil {
		t.Fatalf("DeleteStudent() error = %v", err)
	}

	// Removal goes through the owning account so the database cascades take
	// the student row with it
	if len(accountRepo.deleted) != 1 || accountRepo.deleted[0] != account.ID {
		t.Errorf("deleted accounts = %v, want [%d]", accountRepo.deleted, account.ID)
	}
}

func TestUploadPhoto(t *testing.T) {
	t.Run("first photo becomes primary", func(t *testing.T) {
		svc, studentRepo, _, _ := newStudentServiceForTest()
		student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})

		first, err := svc.UploadPhoto(context.Background(), student.ID, photoFile("a.png"), "")
		if err != nil {
			t.Fatalf("UploadPhoto() error = %v", err)
		}
		if !first.IsPrimary {
			t.Error("first photo should be primary")
		}

		second, err := svc.UploadPhoto(context.Background(), student.ID, photoFile("b.jpg"), "")
		if err != nil {
			t.Fatalf("UploadPhoto() error = %v", err)
		}
		if second.IsPrimary {
			t.Error("later photos should not be primary")
		}
	})

	t.Run("unsupported extension is rejected", func(t *testing.T) {
		svc, studentRepo, _, _ := newStudentServiceForTest()
		student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})

		_, err := svc.UploadPhoto(context.Background(), student.ID, photoFile("notes.txt"), "")
		if !errors.Is(err, apperrors.ErrUnsupportedFileType) {
			t.Fatalf("UploadPhoto() error = %v, want ErrUnsupportedFileType", err)
		}
	})
}

func TestUpdatePhotoPrimaryExclusivity(t *testing.T) {
	svc, studentRepo, _, photoRepo := newStudentServiceForTest()
	student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})

	first := &models.StudentPhoto{StudentID: student.ID, IsPrimary: true}
	second := &models.StudentPhoto{StudentID: student.ID}
	photoRepo.Create(context.Background(), first)
	photoRepo.Create(context.Background(), second)

	isPrimary := true
	updated, err := svc.UpdatePhoto(context.Background(), student.ID, second.ID, dto.UpdatePhotoRequest{
		IsPrimary: &isPrimary,
	})
	if err != nil {
		t.Fatalf("UpdatePhoto() error = %v", err)
	}

	if !updated.IsPrimary {
		t.Error("promoted photo should be primary")
	}
	if first.IsPrimary {
		t.Error("previous primary photo should have been demoted")
	}
}

func TestUpdatePhotoWrongStudent(t *testing.T) {
	svc, studentRepo, _, photoRepo := newStudentServiceForTest()
	student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})
	other := studentRepo.add(&models.Student{StudentID: "S2", AccountID: 2})

	photo := &models.StudentPhoto{StudentID: other.ID}
	photoRepo.Create(context.Background(), photo)

	desc := "x"
	_, err := svc.UpdatePhoto(context.Background(), student.ID, photo.ID, dto.UpdatePhotoRequest{
		Description: &desc,
	})
	if !errors.Is(err, apperrors.ErrPhotoNotFound) {
		t.Fatalf("UpdatePhoto() error = %v, want ErrPhotoNotFound", err)
	}
}

func TestGetStats(t *testing.T) {
	svc, studentRepo, _, _ := newStudentServiceForTest()
	studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1, Status: models.StudentStatusActive})
	studentRepo.add(&models.Student{StudentID: "S2", AccountID: 2, Status: models.StudentStatusActive})
	studentRepo.add(&models.Student{StudentID: "S3", AccountID: 3, Status: models.StudentStatusGraduated})

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	if stats.TotalStudents != 3 {
		t.Errorf("total = %d, want 3", stats.TotalStudents)
	}
	if stats.ActiveStudents != 2 {
		t.Errorf("active = %d, want 2", stats.ActiveStudents)
	}
	if stats.GraduatedStudents != 1 {
		t.Errorf("graduated = %d, want 1", stats.GraduatedStudents)
	}
}
