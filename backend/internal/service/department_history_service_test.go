package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/model"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestDepartmentHistoryService(tr *testRepos) (*departmentHistoryService, *recordingNotifier) {
	n := &recordingNotifier{}
	svc := NewDepartmentHistoryService(tr.repo, tr.recorder(), n, zap.NewNop()).(*departmentHistoryService)
	svc.now = func() time.Time { return fixedNow }
	return svc, n
}

func createReq(emp int32, dept int64, shift int16, start string, end *string) *dto.CreateDepartmentHistoryRequest {
	return &dto.CreateDepartmentHistoryRequest{
		EmployeeID:   &emp,
		DepartmentID: &dept,
		ShiftID:      shift,
		StartDate:    start,
		EndDate:      end,
	}
}

func key(emp int32, dept, shift int16, start string) model.DepartmentHistoryKey {
	return model.DepartmentHistoryKey{EmployeeID: emp, DepartmentID: dept, ShiftID: shift, StartDate: date(start)}
}

// ────────────────────── Create ──────────────────────

func TestCreate_Success(t *testing.T) {
	tr := newTestRepos()
	svc, notifier := newTestDepartmentHistoryService(tr)

	resp, err := svc.Create(context.Background(), createReq(100, 1, 1, "2020-01-01", nil))
	require.NoError(t, err)

	assert.Equal(t, int32(100), resp.EmployeeID)
	assert.Equal(t, int16(1), resp.DepartmentID)
	assert.Equal(t, "2020-01-01", resp.StartDate)
	assert.Nil(t, resp.EndDate)
	assert.Equal(t, "2024-06-01T09:30:00Z", resp.LastModified)
	require.NotNil(t, resp.Department)
	assert.Equal(t, "Engineering", resp.Department.Name)

	assert.Len(t, tr.history.rows, 1)
	assert.Equal(t, []int32{100}, tr.employees.locked, "employee row must be locked inside the transaction")

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, model.NotificationTypeMovement, notifier.sent[0].Type)
	assert.Contains(t, notifier.sent[0].Message, "Ken Sanchez 已调至 Engineering")

	assert.Contains(t, tr.auditLogs.actions(), "info:department_history.create")
}

func TestCreate_AutoClosesSupersededOpenMovement(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(100, 1, 1, "2020-01-01", nil))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq(100, 2, 1, "2021-01-01", nil))
	require.NoError(t, err)

	first, err := svc.Get(ctx, key(100, 1, 1, "2020-01-01"))
	require.NoError(t, err)
	require.NotNil(t, first.EndDate)
	assert.Equal(t, "2021-01-01", *first.EndDate)

	second, err := svc.Get(ctx, key(100, 2, 1, "2021-01-01"))
	require.NoError(t, err)
	assert.Nil(t, second.EndDate)
}

func TestCreate_ClosingRuleIsInclusiveAndIgnoresLaterStarts(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	// 同一开始日期的记录被关闭，更晚开始的保持开放
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 2, StartDate: date("2024-01-01")})
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 3, ShiftID: 1, StartDate: date("2025-01-01")})
	// 其他员工不受影响
	tr.history.seed(model.DepartmentHistory{EmployeeID: 7, DepartmentID: 1, ShiftID: 1, StartDate: date("2023-01-01")})

	_, err := svc.Create(context.Background(), createReq(100, 2, 1, "2024-01-01", nil))
	require.NoError(t, err)

	sameDay := tr.history.rows[key(100, 1, 2, "2024-01-01")]
	require.NotNil(t, sameDay.EndDate)
	assert.True(t, sameDay.EndDate.Equal(date("2024-01-01")))

	assert.Nil(t, tr.history.rows[key(100, 3, 1, "2025-01-01")].EndDate)
	assert.Nil(t, tr.history.rows[key(7, 1, 1, "2023-01-01")].EndDate)
}

func TestCreate_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		req     *dto.CreateDepartmentHistoryRequest
		wantErr error
	}{
		{"employee missing", createReq(404, 1, 1, "2020-01-01", nil), ErrEmployeeNotFound},
		{"department id above range", createReq(100, 999999, 1, "2020-01-01", nil), ErrDepartmentIDOutOfRange},
		{"department id below range", createReq(100, -40000, 1, "2020-01-01", nil), ErrDepartmentIDOutOfRange},
		{"department missing", createReq(100, 42, 1, "2020-01-01", nil), ErrDepartmentNotFound},
		{"start before storage floor", createReq(100, 1, 1, "1752-12-31", nil), ErrStartDateBeforeFloor},
		{"unparsable start", createReq(100, 1, 1, "01/01/2020", nil), ErrInvalidMovementDate},
		{"end before start", createReq(100, 1, 1, "2020-01-01", strPtr("2019-12-31")), ErrEndDateBeforeStartDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestRepos()
			svc, notifier := newTestDepartmentHistoryService(tr)

			_, err := svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, tr.history.writes, "no write may happen before validation passes")
			assert.Empty(t, tr.employees.locked)
			assert.Empty(t, notifier.sent)
		})
	}
}

func TestCreate_ValidationOrder(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	// 员工不存在优先于部门编号越界
	_, err := svc.Create(context.Background(), createReq(404, 999999, 1, "1700-01-01", nil))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	// 范围校验优先于存储层
	_, err = svc.Create(context.Background(), createReq(100, 999999, 1, "1700-01-01", nil))
	assert.ErrorIs(t, err, ErrDepartmentIDOutOfRange)
}

func TestCreate_EndEqualToStartIsAccepted(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	resp, err := svc.Create(context.Background(), createReq(100, 1, 1, "2020-01-01", strPtr("2020-01-01")))
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", *resp.EndDate)
}

func TestCreate_DuplicateKeyIsConflict(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(100, 1, 1, "2020-01-01", nil))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq(100, 1, 1, "2020-01-01T08:00:00Z", nil))
	require.ErrorIs(t, err, ErrDuplicateMovement)
	assert.Contains(t, err.Error(), "100/1/1/2020-01-01")
	assert.Len(t, tr.history.rows, 1)
}

func TestCreate_ForeignKeyViolationAtInsertIsDepartmentNotFound(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	tr.history.createErr = gorm.ErrForeignKeyViolated

	_, err := svc.Create(context.Background(), createReq(100, 1, 1, "2020-01-01", nil))
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
	assert.Contains(t, tr.auditLogs.actions(), "warn:department_history.create")
}

func TestCreate_ZeroIdsAreNotFound(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	_, err := svc.Create(context.Background(), createReq(0, 1, 1, "2020-01-01", nil))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = svc.Create(context.Background(), createReq(-5, 1, 1, "2020-01-01", nil))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = svc.Create(context.Background(), createReq(100, 0, 1, "2020-01-01", nil))
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
	assert.Zero(t, tr.history.writes)
}

func TestCreate_MissingIdsAreRejected(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	req := createReq(100, 1, 1, "2020-01-01", nil)
	req.DepartmentID = nil
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrIncompleteMovement)
}

func TestCreate_UniqueViolationAtInsertIsConflict(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	tr.history.createErr = gorm.ErrDuplicatedKey

	_, err := svc.Create(context.Background(), createReq(100, 1, 1, "2020-01-01", nil))
	assert.ErrorIs(t, err, ErrDuplicateMovement)
}

func TestCreate_StorageFailureIsRecordedAndNotClassified(t *testing.T) {
	tr := newTestRepos()
	svc, notifier := newTestDepartmentHistoryService(tr)
	tr.history.createErr = errors.New("connection reset")

	_, err := svc.Create(context.Background(), createReq(100, 1, 1, "2020-01-01", nil))
	require.Error(t, err)
	for _, known := range []error{ErrDuplicateMovement, ErrEmployeeNotFound, ErrDepartmentNotFound} {
		assert.NotErrorIs(t, err, known)
	}
	assert.Contains(t, tr.auditLogs.actions(), "error:department_history.create")
	assert.Empty(t, notifier.sent)
}

// ────────────────────── Get / List ──────────────────────

func TestGet_IdempotentAndNotFound(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: date("2020-01-01"), LastModified: fixedNow})

	a, err := svc.Get(context.Background(), key(100, 1, 1, "2020-01-01"))
	require.NoError(t, err)
	b, err := svc.Get(context.Background(), key(100, 1, 1, "2020-01-01"))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = svc.Get(context.Background(), key(100, 1, 1, "2020-01-02"))
	assert.ErrorIs(t, err, ErrDepartmentHistoryNotFound)
}

func TestList_EmptyIsWarningNotError(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Contains(t, tr.auditLogs.actions(), "warn:department_history.list")
}

func TestList_ResolvesDepartment(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	tr.history.seed(model.DepartmentHistory{EmployeeID: 7, DepartmentID: 3, ShiftID: 1, StartDate: date("2022-05-01")})

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Department)
	assert.Equal(t, "Sales", rows[0].Department.Name)
}

// ────────────────────── Patch ──────────────────────

func TestPatch_SetsEndDate(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	k := key(100, 1, 1, "2020-01-01")
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: k.StartDate})

	resp, err := svc.Patch(context.Background(), k, &dto.PatchDepartmentHistoryRequest{
		EndDate: dto.OptionalDate{Set: true, Value: strPtr("2020-06-30")},
	})
	require.NoError(t, err)
	assert.Equal(t, "2020-06-30", *resp.EndDate)
	assert.True(t, tr.history.rows[k].LastModified.Equal(fixedNow))
}

func TestPatch_EndBeforeStartLeavesRowUnchanged(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	k := key(100, 1, 1, "2020-01-01")
	before := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: k.StartDate, LastModified: before})

	_, err := svc.Patch(context.Background(), k, &dto.PatchDepartmentHistoryRequest{
		EndDate: dto.OptionalDate{Set: true, Value: strPtr("2019-01-01")},
	})
	assert.ErrorIs(t, err, ErrEndDateBeforeStartDate)
	assert.Nil(t, tr.history.rows[k].EndDate)
	assert.True(t, tr.history.rows[k].LastModified.Equal(before))
	assert.Zero(t, tr.history.writes)
}

func TestPatch_AbsentEndDateOnlyTouchesLastModified(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	k := key(100, 1, 1, "2020-01-01")
	end := date("2020-12-31")
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: k.StartDate, EndDate: &end})

	resp, err := svc.Patch(context.Background(), k, &dto.PatchDepartmentHistoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2020-12-31", *resp.EndDate)
	assert.Equal(t, "2024-06-01T09:30:00Z", resp.LastModified)
}

func TestPatch_NullReopens(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	k := key(100, 1, 1, "2020-01-01")
	end := date("2020-12-31")
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: k.StartDate, EndDate: &end})

	resp, err := svc.Patch(context.Background(), k, &dto.PatchDepartmentHistoryRequest{
		EndDate: dto.OptionalDate{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.EndDate)
	assert.Nil(t, tr.history.rows[k].EndDate)
}

func TestPatch_ReopenWithAnotherOpenMovementIsConflict(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	k := key(100, 1, 1, "2020-01-01")
	end := date("2021-01-01")
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: k.StartDate, EndDate: &end})
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 2, ShiftID: 1, StartDate: date("2021-01-01")})

	_, err := svc.Patch(context.Background(), k, &dto.PatchDepartmentHistoryRequest{
		EndDate: dto.OptionalDate{Set: true},
	})
	assert.ErrorIs(t, err, ErrAnotherOpenMovement)
	assert.NotNil(t, tr.history.rows[k].EndDate)
}

func TestPatch_NotFound(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	_, err := svc.Patch(context.Background(), key(100, 1, 1, "2020-01-01"), &dto.PatchDepartmentHistoryRequest{})
	assert.ErrorIs(t, err, ErrDepartmentHistoryNotFound)
}

func TestApplyJSONPatch_MissingRowIsRecorded(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	_, err := svc.ApplyJSONPatch(context.Background(), key(100, 1, 1, "2020-01-01"),
		[]byte(`[{"op": "add", "path": "/endDate", "value": "2020-03-31"}]`))
	assert.ErrorIs(t, err, ErrDepartmentHistoryNotFound)
	assert.Contains(t, tr.auditLogs.actions(), "warn:department_history.patch")
}

func TestApplyJSONPatch_MalformedDocumentIsRecorded(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)

	_, err := svc.ApplyJSONPatch(context.Background(), key(100, 1, 1, "2020-01-01"), []byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidPatch)
	assert.Contains(t, tr.auditLogs.actions(), "warn:department_history.patch")
}

func TestApplyJSONPatch(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	k := key(100, 1, 1, "2020-01-01")
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: k.StartDate})

	// 文档中的主键字段被忽略
	resp, err := svc.ApplyJSONPatch(context.Background(), k, []byte(`[
		{"op": "add", "path": "/endDate", "value": "2020-03-31"},
		{"op": "replace", "path": "/shiftId", "value": 9}
	]`))
	require.NoError(t, err)
	assert.Equal(t, "2020-03-31", *resp.EndDate)
	assert.Equal(t, int16(1), resp.ShiftID)

	resp, err = svc.ApplyJSONPatch(context.Background(), k, []byte(`[{"op": "replace", "path": "/endDate", "value": null}]`))
	require.NoError(t, err)
	assert.Nil(t, resp.EndDate)

	_, err = svc.ApplyJSONPatch(context.Background(), k, []byte(`{"endDate": "2020-03-31"}`))
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = svc.ApplyJSONPatch(context.Background(), k, []byte(`[{"op": "test", "path": "/shiftId", "value": 5}]`))
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = svc.ApplyJSONPatch(context.Background(), k, []byte(`[{"op": "add", "path": "/endDate", "value": "2019-01-01"}]`))
	assert.ErrorIs(t, err, ErrEndDateBeforeStartDate)
}

// ────────────────────── Delete ──────────────────────

func TestDelete_ThenGetIsNotFound(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestDepartmentHistoryService(tr)
	k := key(100, 1, 1, "2020-01-01")
	tr.history.seed(model.DepartmentHistory{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: k.StartDate})

	require.NoError(t, svc.Delete(context.Background(), k))

	_, err := svc.Get(context.Background(), k)
	assert.ErrorIs(t, err, ErrDepartmentHistoryNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), k), ErrDepartmentHistoryNotFound)
}

// ────────────────────── Paged ──────────────────────

func seedPagedFixture(tr *testRepos) {
	for _, h := range []model.DepartmentHistory{
		{EmployeeID: 100, DepartmentID: 1, ShiftID: 1, StartDate: date("2020-01-01")},
		{EmployeeID: 1001, DepartmentID: 1, ShiftID: 1, StartDate: date("2020-01-01")},
		{EmployeeID: 7, DepartmentID: 2, ShiftID: 1, StartDate: date("2021-01-01")},
		{EmployeeID: 3, DepartmentID: 3, ShiftID: 2, StartDate: date("2021-01-01")},
		{EmployeeID: 12, DepartmentID: 3, ShiftID: 2, StartDate: date("2022-01-01")},
	} {
		tr.history.seed(h)
	}
}

func TestListPaged_NumericSearchIsExact(t *testing.T) {
	tr := newTestRepos()
	seedPagedFixture(tr)
	svc, _ := newTestDepartmentHistoryService(tr)

	items, total, err := svc.ListPaged(context.Background(), &dto.SearchRequest{Search: "100"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, int32(100), items[0].EmployeeID)
}

func TestListPaged_TextSearchMatchesNamesOnly(t *testing.T) {
	tr := newTestRepos()
	seedPagedFixture(tr)
	svc, _ := newTestDepartmentHistoryService(tr)

	items, total, err := svc.ListPaged(context.Background(), &dto.SearchRequest{Search: "ANN"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	names := []string{items[0].FirstName, items[1].FirstName, items[2].FirstName}
	assert.Equal(t, []string{"Anna", "Bob", "Joanna"}, names)

	// 不搜索部门名称
	_, total, err = svc.ListPaged(context.Background(), &dto.SearchRequest{Search: "sales"})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListPaged_OrderingAndPaging(t *testing.T) {
	tr := newTestRepos()
	seedPagedFixture(tr)
	svc, _ := newTestDepartmentHistoryService(tr)

	req := &dto.SearchRequest{PaginationRequest: dto.PaginationRequest{PageNumber: "2", PageSize: "2"}}
	items, total, err := svc.ListPaged(context.Background(), req)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total, "total counts the filtered set, not the page")
	require.Len(t, items, 2)
	assert.Equal(t, "Joanna", items[0].FirstName)
	assert.Equal(t, "Ken", items[1].FirstName)
	assert.Equal(t, "Engineering", items[1].DepartmentName)
}

func TestListByEmployee(t *testing.T) {
	tr := newTestRepos()
	seedPagedFixture(tr)
	svc, _ := newTestDepartmentHistoryService(tr)

	rows, err := svc.ListByEmployee(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int16(2), rows[0].DepartmentID)

	_, err = svc.ListByEmployee(context.Background(), 404)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
