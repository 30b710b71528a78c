package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
)

var ErrExportGenerateFail = errors.New("生成导出文件失败")

// ExportService 部门调动历史导出业务接口
// 返回文件内容，响应头由 handler 设置
type ExportService interface {
	// DepartmentHistoryXLSX 全部调动记录导出为表格
	DepartmentHistoryXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	// EmployeeCalendar 某员工调动记录导出为全天 iCalendar 事件
	EmployeeCalendar(ctx context.Context, employeeID int32) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// DepartmentHistoryXLSX
// ═══════════════════════════════════════════════════════════
//
// 单个工作表，每条调动一行，按员工、开始日期排序：
//   员工 | 部门 | 部门组 | 班次 | 开始日期 | 结束日期 | 最后修改

func (s *exportService) DepartmentHistoryXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.repo.DepartmentHistory.List(ctx)
	if err != nil {
		s.logger.Error("查询导出数据失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "部门调动历史"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"员工", "部门", "部门组", "班次", "开始日期", "结束日期", "最后修改"}
	widths := []float64{12, 28, 24, 8, 14, 14, 22}
	for i, h := range headers {
		col := colName(i)
		_ = f.SetColWidth(sheet, col, col, widths[i])
		_ = f.SetCellValue(sheet, cell(col, 1), h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i := range rows {
		h := &rows[i]
		r := i + 2

		deptName, groupName := "", ""
		if h.Department != nil {
			deptName, groupName = h.Department.Name, h.Department.GroupName
		}
		end := ""
		if h.EndDate != nil {
			end = model.FormatDate(*h.EndDate)
		}

		values := []interface{}{
			h.EmployeeID,
			deptName,
			groupName,
			h.ShiftID,
			model.FormatDate(h.StartDate),
			end,
			h.LastModified.UTC().Format(time.RFC3339),
		}
		for c, v := range values {
			_ = f.SetCellValue(sheet, cell(colName(c), r), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 xlsx 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("department-history_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// EmployeeCalendar
// ═══════════════════════════════════════════════════════════
//
// 在任记录的结束日取今天，日历客户端才能显示区间

func (s *exportService) EmployeeCalendar(ctx context.Context, employeeID int32) ([]byte, string, error) {
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: %d", ErrEmployeeNotFound, employeeID)
		}
		s.logger.Error("查询员工失败", zap.Int32("employee_id", employeeID), zap.Error(err))
		return nil, "", err
	}

	rows, err := s.repo.DepartmentHistory.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询调动记录失败", zap.Int32("employee_id", employeeID), zap.Error(err))
		return nil, "", err
	}

	now := s.now().UTC()
	today := model.TruncateDate(now)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//peopledesk//department history//EN")
	cal.SetName(emp.FullName() + " 部门调动历史")

	for i := range rows {
		h := &rows[i]

		end := today
		if h.EndDate != nil {
			end = *h.EndDate
		}
		if end.Before(h.StartDate) {
			end = h.StartDate
		}

		deptName := fmt.Sprintf("部门 %d", h.DepartmentID)
		if h.Department != nil {
			deptName = h.Department.Name
		}

		ev := cal.AddEvent(h.Key().String() + "@peopledesk")
		ev.SetDtStampTime(now)
		ev.SetModifiedAt(h.LastModified.UTC())
		ev.SetAllDayStartAt(h.StartDate)
		// 全天事件的 DTEND 不包含当天
		ev.SetAllDayEndAt(end.AddDate(0, 0, 1))
		ev.SetSummary(fmt.Sprintf("%s（班次 %d）", deptName, h.ShiftID))
		if h.IsOpen() {
			ev.SetDescription("当前任职")
		}
	}

	filename := fmt.Sprintf("employee-%d-department-history.ics", employeeID)
	return []byte(cal.Serialize()), filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
