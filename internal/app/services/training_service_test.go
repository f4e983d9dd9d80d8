package services

import (
	"context"
	"errors"
	"testing"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
)

func newTrainingServiceForTest() (*TrainingService, *fakeTrainingRepo, *fakeCourseRepo, *fakeStudentRepo) {
	trainingRepo := newFakeTrainingRepo()
	courseRepo := newFakeCourseRepo()
	studentRepo := newFakeStudentRepo()

	svc := NewTrainingService(trainingRepo, courseRepo, studentRepo, passthroughTx)
	return svc, trainingRepo, courseRepo, studentRepo
}

func seedSchedule(courseRepo *fakeCourseRepo, totalHours, maxStudents, currentStudents int, status models.ScheduleStatus) {
	courseRepo.courses[10] = &models.Course{ID: 10, CourseCode: "GO101", TotalHours: totalHours}
	courseRepo.schedules[20] = &models.CourseSchedule{
		ID:              20,
		CourseID:        10,
		MaxStudents:     maxStudents,
		CurrentStudents: currentStudents,
		Status:          status,
	}
}

func TestEnroll(t *testing.T) {
	t.Run("creates enrollment with seeded progress", func(t *testing.T) {
		svc, trainingRepo, courseRepo, studentRepo := newTrainingServiceForTest()
		student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})
		seedSchedule(courseRepo, 40, 30, 0, models.ScheduleStatusScheduled)

		enrollment, err := svc.Enroll(context.Background(), dto.CreateEnrollmentRequest{
			StudentID:  student.ID,
			ScheduleID: 20,
		})
		if err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}

		if enrollment.Status != models.EnrollmentStatusEnrolled {
			t.Errorf("status = %q, want enrolled", enrollment.Status)
		}
		if enrollment.Progress == nil {
			t.Fatal("expected a progress record attached")
		}
		if enrollment.Progress.TotalHoursRequired != 40 {
			t.Errorf("totalHoursRequired = %v, want seeded from course hours", enrollment.Progress.TotalHoursRequired)
		}
		if _, err := trainingRepo.GetProgress(context.Background(), enrollment.ID); err != nil {
			t.Error("progress record was not persisted")
		}
		if courseRepo.adjusted[20] != 1 {
			t.Errorf("seat counter delta = %d, want +1", courseRepo.adjusted[20])
		}
	})

	t.Run("cancelled schedule is rejected", func(t *testing.T) {
		svc, _, courseRepo, studentRepo := newTrainingServiceForTest()
		student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})
		seedSchedule(courseRepo, 40, 30, 0, models.ScheduleStatusCancelled)

		_, err := svc.Enroll(context.Background(), dto.CreateEnrollmentRequest{
			StudentID:  student.ID,
			ScheduleID: 20,
		})
		if err == nil {
			t.Fatal("Enroll() expected error for cancelled schedule, got nil")
		}
	})

	t.Run("full schedule is rejected", func(t *testing.T) {
		svc, _, courseRepo, studentRepo := newTrainingServiceForTest()
		student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})
		seedSchedule(courseRepo, 40, 30, 30, models.ScheduleStatusScheduled)

		_, err := svc.Enroll(context.Background(), dto.CreateEnrollmentRequest{
			StudentID:  student.ID,
			ScheduleID: 20,
		})
		if err == nil {
			t.Fatal("Enroll() expected error for full schedule, got nil")
		}
	})

	t.Run("duplicate enrollment is rejected", func(t *testing.T) {
		svc, _, courseRepo, studentRepo := newTrainingServiceForTest()
		student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})
		seedSchedule(courseRepo, 40, 30, 0, models.ScheduleStatusScheduled)

		req := dto.CreateEnrollmentRequest{StudentID: student.ID, ScheduleID: 20}
		if _, err := svc.Enroll(context.Background(), req); err != nil {
			t.Fatalf("first Enroll() error = %v", err)
		}
		_, err := svc.Enroll(context.Background(), req)
		if !errors.Is(err, apperrors.ErrAlreadyEnrolled) {
			t.Fatalf("second Enroll() error = %v, want ErrAlreadyEnrolled", err)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		svc, _, courseRepo, _ := newTrainingServiceForTest()
		seedSchedule(courseRepo, 40, 30, 0, models.ScheduleStatusScheduled)

		_, err := svc.Enroll(context.Background(), dto.CreateEnrollmentRequest{
			StudentID:  999,
			ScheduleID: 20,
		})
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			t.Fatalf("Enroll() error = %v, want ErrStudentNotFound", err)
		}
	})
}

func TestRecordStudyHours(t *testing.T) {
	svc, trainingRepo, courseRepo, studentRepo := newTrainingServiceForTest()
	student := studentRepo.add(&models.Student{StudentID: "S1", AccountID: 1})
	seedSchedule(courseRepo, 40, 30, 0, models.ScheduleStatusScheduled)

	enrollment, err := svc.Enroll(context.Background(), dto.CreateEnrollmentRequest{
		StudentID:  student.ID,
		ScheduleID: 20,
	})
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	progress, err := svc.RecordStudyHours(context.Background(), enrollment.ID, 7, dto.CreateStudyHourRequest{
		StudyDate:      "2024-03-01",
		HoursCompleted: 4,
	})
	if err != nil {
		t.Fatalf("RecordStudyHours() error = %v", err)
	}
	if progress.HoursCompleted != 4 {
		t.Errorf("hoursCompleted = %v, want 4", progress.HoursCompleted)
	}
	if progress.CompletionPercent != 10 {
		t.Errorf("completion = %v%%, want 10%%", progress.CompletionPercent)
	}

	progress, err = svc.RecordStudyHours(context.Background(), enrollment.ID, 7, dto.CreateStudyHourRequest{
		StudyDate:      "2024-03-08",
		HoursCompleted: 6,
	})
	if err != nil {
		t.Fatalf("RecordStudyHours() error = %v", err)
	}
	if progress.HoursCompleted != 10 {
		t.Errorf("hoursCompleted = %v, want running total 10", progress.HoursCompleted)
	}
	if progress.CompletionPercent != 25 {
		t.Errorf("completion = %v%%, want 25%%", progress.CompletionPercent)
	}
	if progress.LastStudyDate == nil || progress.LastStudyDate.Format("2006-01-02") != "2024-03-08" {
		t.Errorf("lastStudyDate = %v, want the latest record's date", progress.LastStudyDate)
	}

	records, err := trainingRepo.ListStudyHours(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("ListStudyHours() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].AttendanceStatus != models.AttendancePresent {
		t.Errorf("attendance = %q, want default present", records[0].AttendanceStatus)
	}
	if records[0].RecordedBy != 7 {
		t.Errorf("recordedBy = %d, want the acting account", records[0].RecordedBy)
	}
}

func TestRecordStudyHoursBadDate(t *testing.T) {
	svc, trainingRepo, _, _ := newTrainingServiceForTest()
	trainingRepo.enrollments[1] = &models.Enrollment{ID: 1, StudentID: 1, ScheduleID: 20}

	_, err := svc.RecordStudyHours(context.Background(), 1, 7, dto.CreateStudyHourRequest{
		StudyDate:      "03/01/2024",
		HoursCompleted: 2,
	})
	if err == nil {
		t.Fatal("RecordStudyHours() expected error for bad date, got nil")
	}
}

func TestUpdateEnrollment(t *testing.T) {
	t.Run("completion date defaults when completing", func(t *testing.T) {
		svc, trainingRepo, courseRepo, _ := newTrainingServiceForTest()
		seedSchedule(courseRepo, 40, 30, 1, models.ScheduleStatusScheduled)
		trainingRepo.enrollments[1] = &models.Enrollment{
			ID: 1, StudentID: 1, ScheduleID: 20,
			Status: models.EnrollmentStatusEnrolled,
		}

		status := "completed"
		enrollment, err := svc.UpdateEnrollment(context.Background(), 1, dto.UpdateEnrollmentRequest{
			Status: &status,
		})
		if err != nil {
			t.Fatalf("UpdateEnrollment() error = %v", err)
		}
		if enrollment.CompletionDate == nil {
			t.Error("expected the completion date stamped automatically")
		}
	})

	t.Run("dropping releases the seat", func(t *testing.T) {
		svc, trainingRepo, courseRepo, _ := newTrainingServiceForTest()
		seedSchedule(courseRepo, 40, 30, 5, models.ScheduleStatusScheduled)
		trainingRepo.enrollments[1] = &models.Enrollment{
			ID: 1, StudentID: 1, ScheduleID: 20,
			Status: models.EnrollmentStatusEnrolled,
		}

		status := "dropped"
		if _, err := svc.UpdateEnrollment(context.Background(), 1, dto.UpdateEnrollmentRequest{
			Status: &status,
		}); err != nil {
			t.Fatalf("UpdateEnrollment() error = %v", err)
		}
		if courseRepo.adjusted[20] != -1 {
			t.Errorf("seat counter delta = %d, want -1", courseRepo.adjusted[20])
		}

		// A second update on an already dropped enrollment must not release
		// the seat again
		if _, err := svc.UpdateEnrollment(context.Background(), 1, dto.UpdateEnrollmentRequest{
			Status: &status,
		}); err != nil {
			t.Fatalf("UpdateEnrollment() error = %v", err)
		}
		if courseRepo.adjusted[20] != -1 {
			t.Errorf("seat counter delta = %d after repeat drop, want still -1", courseRepo.adjusted[20])
		}
	})
}

func TestCreateGrade(t *testing.T) {
	svc, trainingRepo, _, _ := newTrainingServiceForTest()
	trainingRepo.enrollments[1] = &models.Enrollment{ID: 1, StudentID: 1, ScheduleID: 20}

	t.Run("score above max is rejected", func(t *testing.T) {
		_, err := svc.CreateGrade(context.Background(), 1, 7, dto.CreateGradeRequest{
			GradeType: "exam",
			Score:     110,
			MaxScore:  100,
		})
		if err == nil {
			t.Fatal("CreateGrade() expected error for score above max, got nil")
		}
	})

	t.Run("weight defaults to one", func(t *testing.T) {
		grade, err := svc.CreateGrade(context.Background(), 1, 7, dto.CreateGradeRequest{
			GradeType: "exam",
			Score:     85,
			MaxScore:  100,
		})
		if err != nil {
			t.Fatalf("CreateGrade() error = %v", err)
		}
		if grade.Weight != 1 {
			t.Errorf("weight = %v, want default 1", grade.Weight)
		}
		if grade.GradedBy != 7 {
			t.Errorf("gradedBy = %d, want the acting account", grade.GradedBy)
		}
	})
}
