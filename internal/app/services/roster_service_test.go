package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
)

type fakeStudentCreator struct {
	created []dto.CreateStudentRequest
	failOn  map[string]error
}

func (f *fakeStudentCreator) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err, fail := f.failOn[req.StudentID]; fail {
		return nil, err
	}
	f.created = append(f.created, req)
	return &models.Student{StudentID: req.StudentID}, nil
}

type fakeStudentLister struct {
	students []*models.Student
}

func (f *fakeStudentLister) ListAll(ctx context.Context) ([]*models.Student, error) {
	return f.students, nil
}

// buildWorkbook renders a header row plus data rows into an in-memory xlsx
func buildWorkbook(t *testing.T, header []string, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, caption := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, caption); err != nil {
			t.Fatalf("failed to write header: %v", err)
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("failed to write cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return &buf
}

func TestImportStudents(t *testing.T) {
	header := []string{"学号", "姓名", "姓氏", "邮箱", "状态", "入学日期"}

	t.Run("row failures are isolated", func(t *testing.T) {
		creator := &fakeStudentCreator{
			failOn: map[string]error{"S2": apperrors.ErrStudentIDAlreadyExists},
		}
		svc := NewRosterService(creator, &fakeStudentLister{})

		buf := buildWorkbook(t, header, [][]string{
			{"S1", "伟", "张", "", "在读", "2023-09-01"},
			{"S2", "芳", "李", "", "在读", "2023-09-01"},
			{"S3", "娜", "王", "", "已毕业", "2022-09-01"},
		})

		result, err := svc.ImportStudents(context.Background(), buf)
		if err != nil {
			t.Fatalf("ImportStudents() error = %v", err)
		}

		if result.Total != 3 || result.Success != 2 || result.Failed != 1 {
			t.Errorf("tally = %d/%d/%d, want 3/2/1", result.Total, result.Success, result.Failed)
		}
		if len(result.Errors) != 1 {
			t.Fatalf("errors = %v, want one entry", result.Errors)
		}
		if result.Errors[0].Row != 3 {
			t.Errorf("failed row = %d, want 3 (header is row 1)", result.Errors[0].Row)
		}
		if result.Errors[0].StudentID != "S2" {
			t.Errorf("failed studentId = %q, want S2", result.Errors[0].StudentID)
		}
		if result.Errors[0].Error != "student ID already exists" {
			t.Errorf("error message = %q", result.Errors[0].Error)
		}
		if len(creator.created) != 2 {
			t.Errorf("created %d students, want 2", len(creator.created))
		}
	})

	t.Run("missing required column aborts the import", func(t *testing.T) {
		svc := NewRosterService(&fakeStudentCreator{}, &fakeStudentLister{})

		buf := buildWorkbook(t, []string{"姓名", "邮箱"}, [][]string{{"伟", ""}})

		_, err := svc.ImportStudents(context.Background(), buf)
		if err == nil {
			t.Fatal("ImportStudents() expected structural error, got nil")
		}
		if !strings.Contains(err.Error(), "学号") {
			t.Errorf("error = %v, want it to name the missing column", err)
		}
	})

	t.Run("empty workbook is rejected", func(t *testing.T) {
		svc := NewRosterService(&fakeStudentCreator{}, &fakeStudentLister{})

		buf := buildWorkbook(t, header, nil)

		_, err := svc.ImportStudents(context.Background(), buf)
		if err == nil {
			t.Fatal("ImportStudents() expected error for empty sheet, got nil")
		}
	})

	t.Run("garbage input is unreadable", func(t *testing.T) {
		svc := NewRosterService(&fakeStudentCreator{}, &fakeStudentLister{})

		_, err := svc.ImportStudents(context.Background(), strings.NewReader("not an xlsx"))
		if err != apperrors.ErrUnreadableSheet {
			t.Fatalf("ImportStudents() error = %v, want ErrUnreadableSheet", err)
		}
	})

	t.Run("intra-sheet duplicates fail the later row", func(t *testing.T) {
		creator := &fakeStudentCreator{}
		svc := NewRosterService(creator, &fakeStudentLister{})

		buf := buildWorkbook(t, header, [][]string{
			{"S1", "伟", "", "", "", ""},
			{"S1", "芳", "", "", "", ""},
		})

		result, err := svc.ImportStudents(context.Background(), buf)
		if err != nil {
			t.Fatalf("ImportStudents() error = %v", err)
		}

		if result.Success != 1 || result.Failed != 1 {
			t.Fatalf("tally = %d/%d, want 1 success and 1 failure", result.Success, result.Failed)
		}
		if result.Errors[0].Row != 3 {
			t.Errorf("duplicate flagged at row %d, want 3", result.Errors[0].Row)
		}
		if !strings.Contains(result.Errors[0].Error, "duplicate of row 2") {
			t.Errorf("error message = %q, want reference to first occurrence", result.Errors[0].Error)
		}
	})

	t.Run("blank rows are skipped", func(t *testing.T) {
		creator := &fakeStudentCreator{}
		svc := NewRosterService(creator, &fakeStudentLister{})

		buf := buildWorkbook(t, header, [][]string{
			{"S1", "伟", "", "", "", ""},
			{"", "", "", "", "", ""},
			{"S2", "芳", "", "", "", ""},
		})

		result, err := svc.ImportStudents(context.Background(), buf)
		if err != nil {
			t.Fatalf("ImportStudents() error = %v", err)
		}
		if result.Total != 2 || result.Success != 2 {
			t.Errorf("tally = %d/%d, want 2/2 with the blank row ignored", result.Total, result.Success)
		}
	})

	t.Run("invalid row data is reported per row", func(t *testing.T) {
		creator := &fakeStudentCreator{}
		svc := NewRosterService(creator, &fakeStudentLister{})

		buf := buildWorkbook(t, header, [][]string{
			{"S1", "伟", "", "not-an-email", "", ""},
			{"S2", "", "", "", "", ""},
			{"S3", "芳", "", "", "", "bogus date"},
		})

		result, err := svc.ImportStudents(context.Background(), buf)
		if err != nil {
			t.Fatalf("ImportStudents() error = %v", err)
		}
		if result.Failed != 3 {
			t.Fatalf("failed = %d, want all 3 rows rejected: %v", result.Failed, result.Errors)
		}
		if len(creator.created) != 0 {
			t.Errorf("created %d students, want none", len(creator.created))
		}
	})

	t.Run("text dates are normalized", func(t *testing.T) {
		creator := &fakeStudentCreator{}
		svc := NewRosterService(creator, &fakeStudentLister{})

		buf := buildWorkbook(t, header, [][]string{
			{"S1", "伟", "", "", "", "2023/09/01"},
		})

		result, err := svc.ImportStudents(context.Background(), buf)
		if err != nil {
			t.Fatalf("ImportStudents() error = %v", err)
		}
		if result.Success != 1 {
			t.Fatalf("success = %d, want 1: %v", result.Success, result.Errors)
		}
		if creator.created[0].EnrollmentDate != "2023-09-01" {
			t.Errorf("enrollmentDate = %q, want normalized 2023-09-01", creator.created[0].EnrollmentDate)
		}
	})

	t.Run("status labels are carried through", func(t *testing.T) {
		creator := &fakeStudentCreator{}
		svc := NewRosterService(creator, &fakeStudentLister{})

		buf := buildWorkbook(t, header, [][]string{
			{"S1", "伟", "", "", "已毕业", ""},
		})

		if _, err := svc.ImportStudents(context.Background(), buf); err != nil {
			t.Fatalf("ImportStudents() error = %v", err)
		}
		if creator.created[0].Status != "已毕业" {
			t.Errorf("status = %q, want the raw label passed along", creator.created[0].Status)
		}
	})
}

func TestExportStudents(t *testing.T) {
	enrollment := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2023, 8, 15, 10, 30, 0, 0, time.UTC)

	lister := &fakeStudentLister{students: []*models.Student{
		{
			StudentID:      "S2023001",
			Department:     "计算机系",
			Grade:          "2023级",
			EnrollmentDate: &enrollment,
			Status:         models.StudentStatusActive,
			CreatedAt:      created,
			Account: &models.Account{
				Username:  "student_S2023001",
				Email:     "student_S2023001@example.com",
				FirstName: "伟",
				LastName:  "张",
				Phone:     "13800138000",
			},
		},
	}}
	svc := NewRosterService(&fakeStudentCreator{}, lister)

	f, filename, err := svc.ExportStudents(context.Background())
	if err != nil {
		t.Fatalf("ExportStudents() error = %v", err)
	}
	defer f.Close()

	if !strings.HasPrefix(filename, "students_export_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q, want students_export_<timestamp>.xlsx", filename)
	}

	rows, err := f.GetRows("学员数据")
	if err != nil {
		t.Fatalf("failed to read export sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one student", len(rows))
	}

	wantHeader := []string{"学号", "姓名", "姓氏", "用户名", "邮箱", "电话", "院系", "年级", "入学日期", "毕业日期", "状态", "创建时间"}
	for i, caption := range wantHeader {
		if rows[0][i] != caption {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], caption)
		}
	}

	row := rows[1]
	if row[0] != "S2023001" {
		t.Errorf("studentId cell = %q", row[0])
	}
	if row[8] != "2023-09-01" {
		t.Errorf("enrollment date cell = %q, want 2023-09-01", row[8])
	}
	if row[10] != "在读" {
		t.Errorf("status cell = %q, want the localized label", row[10])
	}
	if row[11] != "2023-08-15 10:30:00" {
		t.Errorf("created-at cell = %q", row[11])
	}
}

// Round trip: what export writes, import accepts.
func TestRosterRoundTrip(t *testing.T) {
	enrollment := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	lister := &fakeStudentLister{students: []*models.Student{
		{
			StudentID:      "S2023001",
			Department:     "计算机系",
			EnrollmentDate: &enrollment,
			Status:         models.StudentStatusGraduated,
			Account:        &models.Account{Username: "u1", FirstName: "伟"},
		},
	}}

	exporter := NewRosterService(&fakeStudentCreator{}, lister)
	f, _, err := exporter.ExportStudents(context.Background())
	if err != nil {
		t.Fatalf("ExportStudents() error = %v", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to serialize export: %v", err)
	}

	creator := &fakeStudentCreator{}
	importer := NewRosterService(creator, &fakeStudentLister{})
	result, err := importer.ImportStudents(context.Background(), &buf)
	if err != nil {
		t.Fatalf("ImportStudents() error = %v", err)
	}

	if result.Success != 1 || result.Failed != 0 {
		t.Fatalf("tally = %d/%d, want clean import: %v", result.Success, result.Failed, result.Errors)
	}

	got := creator.created[0]
	if got.StudentID != "S2023001" || got.Department != "计算机系" {
		t.Errorf("round-tripped request = %+v", got)
	}
	if got.EnrollmentDate != "2023-09-01" {
		t.Errorf("enrollmentDate = %q, want 2023-09-01", got.EnrollmentDate)
	}
	if got.Status != "已毕业" {
		t.Errorf("status = %q, want the exported label", got.Status)
	}
}
