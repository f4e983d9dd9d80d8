package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/denizt/traincenter/internal/app/models"
	"github.com/denizt/traincenter/internal/app/models/dto"
	"github.com/denizt/traincenter/internal/pkg/apperrors"
	"github.com/denizt/traincenter/internal/pkg/helpers"
	"github.com/denizt/traincenter/internal/pkg/logger"
)

// Spreadsheet column headers shared by import and export. The export sheet
// carries one extra trailing column for the creation timestamp.
const (
	colStudentID      = "学号"
	colFirstName      = "姓名"
	colLastName       = "姓氏"
	colUsername       = "用户名"
	colEmail          = "邮箱"
	colPhone          = "电话"
	colDepartment     = "院系"
	colGrade          = "年级"
	colEnrollmentDate = "入学日期"
	colGraduationDate = "毕业日期"
	colStatus         = "状态"
	colCreatedAt      = "创建时间"

	exportSheetName = "学员数据"
)

var rosterColumns = []string{
	colStudentID, colFirstName, colLastName, colUsername, colEmail, colPhone,
	colDepartment, colGrade, colEnrollmentDate, colGraduationDate, colStatus,
}

var requiredColumns = []string{colStudentID, colFirstName}

// sheetDateLayouts are the date renderings accepted in import cells, tried
// in order after the Excel serial number interpretation.
var sheetDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
}

// IStudentCreator is the slice of StudentService the import pipeline uses.
// Each spreadsheet row goes through exactly the same creation path as a
// single-student API request.
type IStudentCreator interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
}

// IStudentLister is the read side used by the export pipeline
type IStudentLister interface {
	ListAll(ctx context.Context) ([]*models.Student, error)
}

// RosterService implements bulk spreadsheet import and export of students
type RosterService struct {
	students IStudentCreator
	lister   IStudentLister
}

// NewRosterService creates a new RosterService
func NewRosterService(students IStudentCreator, lister IStudentLister) *RosterService {
	return &RosterService{
		students: students,
		lister:   lister,
	}
}

// ImportStudents reads an xlsx workbook and creates one student per data
// row. Row failures are isolated: a bad row is recorded in the tally and
// processing continues. Only structural problems (unreadable workbook,
// missing required columns, no data rows) abort the import.
func (s *RosterService) ImportStudents(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.ErrUnreadableSheet
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, apperrors.ErrUnreadableSheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.ErrUnreadableSheet
	}
	if len(rows) < 2 {
		return nil, apperrors.NewBadRequestError("spreadsheet contains no data rows")
	}

	colIndex, err := mapHeaderColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{}
	seen := make(map[string]int)

	for i, row := range rows[1:] {
		// Header is row 1, so data rows are numbered from 2
		rowNum := i + 2

		if isEmptyRow(row) {
			continue
		}
		result.Total++

		req, err := s.buildRowRequest(f, sheet, row, rowNum, colIndex)
		if err == nil {
			if firstRow, dup := seen[req.StudentID]; dup {
				err = fmt.Errorf("duplicate of row %d", firstRow)
			}
		}
		if err == nil {
			seen[req.StudentID] = rowNum
			_, err = s.students.CreateStudent(ctx, req)
		}

		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row:       rowNum,
				StudentID: cellAt(row, colIndex[colStudentID]),
				Error:     importErrorMessage(err),
			})
			continue
		}
		result.Success++
	}

	logger.Info().
		Int("total", result.Total).
		Int("success", result.Success).
		Int("failed", result.Failed).
		Msg("Roster import finished")

	return result, nil
}

// ExportStudents renders every student into an xlsx workbook mirroring the
// import layout, plus the creation timestamp. The returned filename embeds
// the generation time.
func (s *RosterService) ExportStudents(ctx context.Context) (*excelize.File, string, error) {
	students, err := s.lister.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := append(append([]string{}, rosterColumns...), colCreatedAt)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, student := range students {
		account := student.Account
		values := []string{
			student.StudentID,
			account.FirstName,
			account.LastName,
			account.Username,
			account.Email,
			account.Phone,
			student.Department,
			student.Grade,
			helpers.FormatDate(student.EnrollmentDate),
			helpers.FormatDate(student.GraduationDate),
			student.Status.Label(),
			student.CreatedAt.Format(helpers.TimestampFormat),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	filename := fmt.Sprintf("students_export_%s.xlsx", time.Now().Format("20060102_150405"))
	return f, filename, nil
}

// mapHeaderColumns resolves header captions to column indexes and verifies
// the required captions are present
func mapHeaderColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, caption := range header {
		index[strings.TrimSpace(caption)] = i
	}

	for _, required := range requiredColumns {
		if _, ok := index[required]; !ok {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("missing required column: %s", required))
		}
	}

	return index, nil
}

// buildRowRequest validates one data row and maps it to a student creation
// request
func (s *RosterService) buildRowRequest(f *excelize.File, sheet string, row []string, rowNum int, colIndex map[string]int) (dto.CreateStudentRequest, error) {
	var req dto.CreateStudentRequest

	req.StudentID = cellAt(row, colIndex[colStudentID])
	if req.StudentID == "" {
		return req, errors.New("student ID is required")
	}

	req.FirstName = cellAt(row, colIndex[colFirstName])
	if req.FirstName == "" {
		return req, errors.New("name is required")
	}

	req.LastName = optionalCell(row, colIndex, colLastName)
	req.Username = optionalCell(row, colIndex, colUsername)
	req.Phone = optionalCell(row, colIndex, colPhone)
	req.Department = optionalCell(row, colIndex, colDepartment)
	req.Grade = optionalCell(row, colIndex, colGrade)
	req.Status = optionalCell(row, colIndex, colStatus)

	req.Email = optionalCell(row, colIndex, colEmail)
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		return req, errors.New("invalid email address")
	}

	if idx, ok := colIndex[colEnrollmentDate]; ok {
		date, err := normalizeSheetDate(f, sheet, rowNum, idx, cellAt(row, idx))
		if err != nil {
			return req, fmt.Errorf("invalid enrollment date: %q", cellAt(row, idx))
		}
		req.EnrollmentDate = date
	}
	if idx, ok := colIndex[colGraduationDate]; ok {
		date, err := normalizeSheetDate(f, sheet, rowNum, idx, cellAt(row, idx))
		if err != nil {
			return req, fmt.Errorf("invalid graduation date: %q", cellAt(row, idx))
		}
		req.GraduationDate = date
	}

	return req, nil
}

// normalizeSheetDate renders a date cell as YYYY-MM-DD. Native Excel date
// cells arrive as serial numbers in the raw value; everything else is tried
// against the accepted text layouts.
func normalizeSheetDate(f *excelize.File, sheet string, rowNum, colIdx int, display string) (string, error) {
	display = strings.TrimSpace(display)
	if display == "" {
		return "", nil
	}

	cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowNum)
	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err == nil {
		if serial, convErr := strconv.ParseFloat(strings.TrimSpace(raw), 64); convErr == nil {
			t, dateErr := excelize.ExcelDateToTime(serial, false)
			if dateErr == nil {
				return t.Format(helpers.DateFormat), nil
			}
		}
	}

	for _, layout := range sheetDateLayouts {
		if t, parseErr := time.Parse(layout, display); parseErr == nil {
			return t.Format(helpers.DateFormat), nil
		}
	}

	return "", fmt.Errorf("unrecognized date: %s", display)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, colIndex map[string]int, caption string) string {
	idx, ok := colIndex[caption]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// importErrorMessage flattens service errors into the short row-level
// messages reported in the tally
func importErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists):
		return "student ID already exists"
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		return "username already exists"
	default:
		return err.Error()
	}
}
