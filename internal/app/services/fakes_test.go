package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/db"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
)

// passthroughTx runs the transaction body directly; the fakes below never
// touch the tx handle.
func passthroughTx(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakeAccountRepo struct {
	byID       map[int64]*models.Account
	byUsername map[string]*models.Account
	nextID     int64
	deleted    []int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byID:       make(map[int64]*models.Account),
		byUsername: make(map[string]*models.Account),
	}
}

func (f *fakeAccountRepo) add(account *models.Account) *models.Account {
	if account.ID == 0 {
		f.nextID++
		account.ID = f.nextID
	} else if account.ID > f.nextID {
		f.nextID = account.ID
	}
	f.byID[account.ID] = account
	f.byUsername[account.Username] = account
	return account
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if _, taken := f.byUsername[account.Username]; taken {
		return apperrors.ErrUsernameAlreadyExists
	}
	f.add(account)
	return nil
}

func (f *fakeAccountRepo) CreateTx(ctx context.Context, tx pgx.Tx, account *models.Account) error {
	return f.Create(ctx, account)
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	account, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

func (f *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, ok := f.byUsername[username]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

func (f *fakeAccountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func (f *fakeAccountRepo) List(ctx context.Context, role *models.Role, page, pageSize int) ([]*models.Account, int64, error) {
	var out []*models.Account
	for _, account := range f.byID {
		if role == nil || account.Role == *role {
			out = append(out, account)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *models.Account) error {
	if _, ok := f.byID[account.ID]; !ok {
		return apperrors.ErrAccountNotFound
	}
	f.byID[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	account, ok := f.byID[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	account.Password = passwordHash
	return nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id int64) error {
	account, ok := f.byID[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	delete(f.byUsername, account.Username)
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeStudentRepo struct {
	byID        map[int64]*models.Student
	byStudentID map[string]*models.Student
	byAccountID map[int64]*models.Student
	contacts    map[int64]*models.StudentContact
	nextID      int64
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		byID:        make(map[int64]*models.Student),
		byStudentID: make(map[string]*models.Student),
		byAccountID: make(map[int64]*models.Student),
		contacts:    make(map[int64]*models.StudentContact),
	}
}

func (f *fakeStudentRepo) add(student *models.Student) *models.Student {
	if student.ID == 0 {
		f.nextID++
		student.ID = f.nextID
	}
	f.byID[student.ID] = student
	f.byStudentID[student.StudentID] = student
	f.byAccountID[student.AccountID] = student
	return student
}

func (f *fakeStudentRepo) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	if _, taken := f.byStudentID[student.StudentID]; taken {
		return apperrors.ErrStudentIDAlreadyExists
	}
	f.add(student)
	return nil
}

func (f *fakeStudentRepo) CreateContactTx(ctx context.Context, tx pgx.Tx, contact *models.StudentContact) error {
	f.contacts[contact.StudentID] = contact
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	student, ok := f.byStudentID[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	student, ok := f.byAccountID[accountID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	_, ok := f.byStudentID[studentID]
	return ok, nil
}

func (f *fakeStudentRepo) List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, int64, error) {
	students, err := f.ListAll(ctx)
	return students, int64(len(students)), err
}

func (f *fakeStudentRepo) ListAll(ctx context.Context) ([]*models.Student, error) {
	var out []*models.Student
	for id := int64(1); id <= f.nextID; id++ {
		if student, ok := f.byID[id]; ok {
			out = append(out, student)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := f.byID[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	f.byID[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) GetContact(ctx context.Context, studentID int64) (*models.StudentContact, error) {
	contact, ok := f.contacts[studentID]
	if !ok {
		return nil, apperrors.ErrContactNotFound
	}
	return contact, nil
}

func (f *fakeStudentRepo) UpdateContact(ctx context.Context, contact *models.StudentContact) error {
	if _, ok := f.contacts[contact.StudentID]; !ok {
		return apperrors.ErrContactNotFound
	}
	f.contacts[contact.StudentID] = contact
	return nil
}

func (f *fakeStudentRepo) CountByStatus(ctx context.Context) (int64, map[models.StudentStatus]int64, error) {
	counts := make(map[models.StudentStatus]int64)
	for _, student := range f.byID {
		counts[student.Status]++
	}
	return int64(len(f.byID)), counts, nil
}

type fakeAchievementRepo struct {
	byID   map[int64]*models.StudentAchievement
	nextID int64
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{byID: make(map[int64]*models.StudentAchievement)}
}

func (f *fakeAchievementRepo) Create(ctx context.Context, achievement *models.StudentAchievement) error {
	f.nextID++
	achievement.ID = f.nextID
	f.byID[achievement.ID] = achievement
	return nil
}

func (f *fakeAchievementRepo) GetByID(ctx context.Context, id int64) (*models.StudentAchievement, error) {
	achievement, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrAchievementNotFound
	}
	return achievement, nil
}

func (f *fakeAchievementRepo) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentAchievement, error) {
	var out []*models.StudentAchievement
	for _, achievement := range f.byID {
		if achievement.StudentID == studentID {
			out = append(out, achievement)
		}
	}
	return out, nil
}

func (f *fakeAchievementRepo) Update(ctx context.Context, achievement *models.StudentAchievement) error {
	if _, ok := f.byID[achievement.ID]; !ok {
		return apperrors.ErrAchievementNotFound
	}
	f.byID[achievement.ID] = achievement
	return nil
}

func (f *fakeAchievementRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrAchievementNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePhotoRepo struct {
	byID   map[int64]*models.StudentPhoto
	nextID int64
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{byID: make(map[int64]*models.StudentPhoto)}
}

func (f *fakePhotoRepo) Create(ctx context.Context, photo *models.StudentPhoto) error {
	f.nextID++
	photo.ID = f.nextID
	f.byID[photo.ID] = photo
	return nil
}

func (f *fakePhotoRepo) GetByID(ctx context.Context, id int64) (*models.StudentPhoto, error) {
	photo, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrPhotoNotFound
	}
	return photo, nil
}

func (f *fakePhotoRepo) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentPhoto, error) {
	var out []*models.StudentPhoto
	for id := int64(1); id <= f.nextID; id++ {
		if photo, ok := f.byID[id]; ok && photo.StudentID == studentID {
			out = append(out, photo)
		}
	}
	return out, nil
}

func (f *fakePhotoRepo) UpdateDescription(ctx context.Context, id int64, description string) error {
	photo, ok := f.byID[id]
	if !ok {
		return apperrors.ErrPhotoNotFound
	}
	photo.Description = description
	return nil
}

func (f *fakePhotoRepo) SetPrimary(ctx context.Context, studentID, photoID int64) error {
	target, ok := f.byID[photoID]
	if !ok || target.StudentID != studentID {
		return apperrors.ErrPhotoNotFound
	}
	for _, photo := range f.byID {
		if photo.StudentID == studentID {
			photo.IsPrimary = photo.ID == photoID
		}
	}
	return nil
}

func (f *fakePhotoRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrPhotoNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return f.SaveFileWithPath(fileHeader, "files")
}

func (f *fakeStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error) {
	url := fmt.Sprintf("/uploads/%s/%s", path, fileHeader.Filename)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(filePath string) error {
	f.deleted = append(f.deleted, filePath)
	return nil
}

func (f *fakeStorage) GetFullPath(fileURL string) string {
	return fileURL
}

type fakeCourseRepo struct {
	courses   map[int64]*models.Course
	schedules map[int64]*models.CourseSchedule
	adjusted  map[int64]int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:   make(map[int64]*models.Course),
		schedules: make(map[int64]*models.CourseSchedule),
		adjusted:  make(map[int64]int),
	}
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) List(ctx context.Context, category, difficulty string, page, pageSize int) ([]*models.Course, int64, error) {
	return nil, 0, nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id int64) error {
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) CreateSchedule(ctx context.Context, schedule *models.CourseSchedule) error {
	f.schedules[schedule.ID] = schedule
	return nil
}

func (f *fakeCourseRepo) GetScheduleByID(ctx context.Context, id int64) (*models.CourseSchedule, error) {
	schedule, ok := f.schedules[id]
	if !ok {
		return nil, apperrors.ErrScheduleNotFound
	}
	return schedule, nil
}

func (f *fakeCourseRepo) ListSchedulesByCourse(ctx context.Context, courseID int64) ([]*models.CourseSchedule, error) {
	return nil, nil
}

func (f *fakeCourseRepo) UpdateScheduleStatus(ctx context.Context, id int64, status models.ScheduleStatus) error {
	schedule, ok := f.schedules[id]
	if !ok {
		return apperrors.ErrScheduleNotFound
	}
	schedule.Status = status
	return nil
}

func (f *fakeCourseRepo) AdjustCurrentStudents(ctx context.Context, id int64, delta int) error {
	schedule, ok := f.schedules[id]
	if !ok {
		return apperrors.ErrScheduleNotFound
	}
	schedule.CurrentStudents += delta
	f.adjusted[id] += delta
	return nil
}

type fakeTrainingRepo struct {
	enrollments map[int64]*models.Enrollment
	progress    map[int64]*models.TrainingProgress
	studyHours  map[int64][]*models.StudyHour
	grades      map[int64][]*models.Grade
	nextID      int64
}

func newFakeTrainingRepo() *fakeTrainingRepo {
	return &fakeTrainingRepo{
		enrollments: make(map[int64]*models.Enrollment),
		progress:    make(map[int64]*models.TrainingProgress),
		studyHours:  make(map[int64][]*models.StudyHour),
		grades:      make(map[int64][]*models.Grade),
	}
}

func (f *fakeTrainingRepo) CreateEnrollmentTx(ctx context.Context, tx pgx.Tx, enrollment *models.Enrollment) error {
	for _, existing := range f.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.ScheduleID == enrollment.ScheduleID {
			return apperrors.ErrAlreadyEnrolled
		}
	}
	f.nextID++
	enrollment.ID = f.nextID
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

func (f *fakeTrainingRepo) CreateProgressTx(ctx context.Context, tx pgx.Tx, progress *models.TrainingProgress) error {
	f.progress[progress.EnrollmentID] = progress
	return nil
}

func (f *fakeTrainingRepo) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (f *fakeTrainingRepo) ListEnrollmentsByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.StudentID == studentID {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

func (f *fakeTrainingRepo) ListEnrollmentsBySchedule(ctx context.Context, scheduleID int64) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, enrollment := range f.enrollments {
		if enrollment.ScheduleID == scheduleID {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

func (f *fakeTrainingRepo) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if _, ok := f.enrollments[enrollment.ID]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

func (f *fakeTrainingRepo) CreateStudyHourTx(ctx context.Context, tx pgx.Tx, record *models.StudyHour) error {
	f.studyHours[record.EnrollmentID] = append(f.studyHours[record.EnrollmentID], record)
	return nil
}

func (f *fakeTrainingRepo) SumStudyHoursTx(ctx context.Context, tx pgx.Tx, enrollmentID int64) (float64, *time.Time, error) {
	var total float64
	var last *time.Time
	for _, record := range f.studyHours[enrollmentID] {
		total += record.HoursCompleted
		if last == nil || record.StudyDate.After(*last) {
			d := record.StudyDate
			last = &d
		}
	}
	return total, last, nil
}

func (f *fakeTrainingRepo) ListStudyHours(ctx context.Context, enrollmentID int64) ([]*models.StudyHour, error) {
	return f.studyHours[enrollmentID], nil
}

func (f *fakeTrainingRepo) CreateGrade(ctx context.Context, grade *models.Grade) error {
	f.grades[grade.EnrollmentID] = append(f.grades[grade.EnrollmentID], grade)
	return nil
}

func (f *fakeTrainingRepo) ListGrades(ctx context.Context, enrollmentID int64) ([]*models.Grade, error) {
	return f.grades[enrollmentID], nil
}

func (f *fakeTrainingRepo) GetProgress(ctx context.Context, enrollmentID int64) (*models.TrainingProgress, error) {
	progress, ok := f.progress[enrollmentID]
	if !ok {
		return nil, apperrors.ErrProgressNotFound
	}
	return progress, nil
}

func (f *fakeTrainingRepo) GetProgressTx(ctx context.Context, tx pgx.Tx, enrollmentID int64) (*models.TrainingProgress, error) {
	return f.GetProgress(ctx, enrollmentID)
}

func (f *fakeTrainingRepo) UpdateProgressTx(ctx context.Context, tx pgx.Tx, progress *models.TrainingProgress) error {
	f.progress[progress.EnrollmentID] = progress
	return nil
}
