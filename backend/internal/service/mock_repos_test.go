package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[int32]*model.Employee
	locked    []int32
}

func newMockEmployeeRepo(emps ...model.Employee) *mockEmployeeRepo {
	m := &mockEmployeeRepo{employees: make(map[int32]*model.Employee)}
	for i := range emps {
		e := emps[i]
		m.employees[e.EmployeeID] = &e
	}
	return m
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id int32) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) LockForUpdate(_ context.Context, id int32) error {
	if _, ok := m.employees[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.locked = append(m.locked, id)
	return nil
}

func (m *mockEmployeeRepo) ListPaged(_ context.Context, search string, offset, limit int) ([]model.Employee, int64, error) {
	var matched []model.Employee
	for _, e := range m.employees {
		if e.Active && matchesSearch(search, e.EmployeeID, e.FirstName, e.LastName) {
			matched = append(matched, *e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FirstName != matched[j].FirstName {
			return matched[i].FirstName < matched[j].FirstName
		}
		return matched[i].EmployeeID < matched[j].EmployeeID
	})
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (m *mockEmployeeRepo) SoftDelete(_ context.Context, id int32, now time.Time) error {
	e, ok := m.employees[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Active = false
	e.UpdatedAt = now
	return nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	depts map[int16]*model.Department
}

func newMockDepartmentRepo(depts ...model.Department) *mockDepartmentRepo {
	m := &mockDepartmentRepo{depts: make(map[int16]*model.Department)}
	for i := range depts {
		d := depts[i]
		m.depts[d.DepartmentID] = &d
	}
	return m
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if _, ok := m.depts[dept.DepartmentID]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id int16) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	result := make([]model.Department, 0, len(m.depts))
	for _, d := range m.depts {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock DepartmentHistoryRepository ──

type mockDepartmentHistoryRepo struct {
	rows      map[model.DepartmentHistoryKey]*model.DepartmentHistory
	depts     *mockDepartmentRepo
	employees *mockEmployeeRepo

	createErr error // returned by Create when set
	listErr   error
	writes    int // mutating calls
}

func newMockDepartmentHistoryRepo(depts *mockDepartmentRepo, emps *mockEmployeeRepo) *mockDepartmentHistoryRepo {
	return &mockDepartmentHistoryRepo{
		rows:      make(map[model.DepartmentHistoryKey]*model.DepartmentHistory),
		depts:     depts,
		employees: emps,
	}
}

func (m *mockDepartmentHistoryRepo) seed(h model.DepartmentHistory) {
	m.rows[h.Key()] = &h
}

func (m *mockDepartmentHistoryRepo) withDepartment(h model.DepartmentHistory) model.DepartmentHistory {
	if d, ok := m.depts.depts[h.DepartmentID]; ok {
		h.Department = d
	}
	return h
}

func (m *mockDepartmentHistoryRepo) sorted(filter func(*model.DepartmentHistory) bool) []model.DepartmentHistory {
	var result []model.DepartmentHistory
	for _, h := range m.rows {
		if filter == nil || filter(h) {
			result = append(result, m.withDepartment(*h))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EmployeeID != result[j].EmployeeID {
			return result[i].EmployeeID < result[j].EmployeeID
		}
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result
}

func (m *mockDepartmentHistoryRepo) List(_ context.Context) ([]model.DepartmentHistory, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(nil), nil
}

func (m *mockDepartmentHistoryRepo) GetByKey(_ context.Context, key model.DepartmentHistoryKey) (*model.DepartmentHistory, error) {
	h, ok := m.rows[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.withDepartment(*h)
	return &cp, nil
}

func (m *mockDepartmentHistoryRepo) Exists(_ context.Context, key model.DepartmentHistoryKey) (bool, error) {
	_, ok := m.rows[key]
	return ok, nil
}

func (m *mockDepartmentHistoryRepo) CloseOpen(_ context.Context, employeeID int32, startDate, now time.Time) (int64, error) {
	m.writes++
	var n int64
	for _, h := range m.rows {
		if h.EmployeeID == employeeID && h.EndDate == nil && !h.StartDate.After(startDate) {
			end := startDate
			h.EndDate = &end
			h.LastModified = now
			n++
		}
	}
	return n, nil
}

func (m *mockDepartmentHistoryRepo) Create(_ context.Context, h *model.DepartmentHistory) error {
	m.writes++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.rows[h.Key()]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *h
	cp.Department = nil
	m.rows[h.Key()] = &cp
	return nil
}

func (m *mockDepartmentHistoryRepo) UpdateEndDate(_ context.Context, key model.DepartmentHistoryKey, endDate *time.Time, now time.Time) error {
	m.writes++
	h, ok := m.rows[key]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.EndDate = endDate
	h.LastModified = now
	return nil
}

func (m *mockDepartmentHistoryRepo) Delete(_ context.Context, key model.DepartmentHistoryKey) error {
	m.writes++
	if _, ok := m.rows[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rows, key)
	return nil
}

func (m *mockDepartmentHistoryRepo) CountOpenExcluding(_ context.Context, key model.DepartmentHistoryKey) (int64, error) {
	var n int64
	for k, h := range m.rows {
		if k != key && h.EmployeeID == key.EmployeeID && h.EndDate == nil {
			n++
		}
	}
	return n, nil
}

func (m *mockDepartmentHistoryRepo) GetOpenByEmployee(_ context.Context, employeeID int32) (*model.DepartmentHistory, error) {
	open := m.sorted(func(h *model.DepartmentHistory) bool { return h.EmployeeID == employeeID && h.EndDate == nil })
	if len(open) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &open[len(open)-1], nil
}

func (m *mockDepartmentHistoryRepo) ListByEmployee(_ context.Context, employeeID int32) ([]model.DepartmentHistory, error) {
	return m.sorted(func(h *model.DepartmentHistory) bool { return h.EmployeeID == employeeID }), nil
}

func (m *mockDepartmentHistoryRepo) ListPaged(_ context.Context, search string, offset, limit int) ([]repository.DepartmentHistoryRow, int64, error) {
	var matched []repository.DepartmentHistoryRow
	for _, h := range m.rows {
		e, ok := m.employees.employees[h.EmployeeID]
		if !ok || !matchesSearch(search, e.EmployeeID, e.FirstName, e.LastName) {
			continue
		}
		row := repository.DepartmentHistoryRow{
			EmployeeID:   h.EmployeeID,
			FirstName:    e.FirstName,
			LastName:     e.LastName,
			DepartmentID: h.DepartmentID,
			ShiftID:      h.ShiftID,
			StartDate:    h.StartDate,
			EndDate:      h.EndDate,
		}
		if d, ok := m.depts.depts[h.DepartmentID]; ok {
			row.DepartmentName, row.GroupName = d.Name, d.GroupName
		}
		matched = append(matched, row)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FirstName != matched[j].FirstName {
			return matched[i].FirstName < matched[j].FirstName
		}
		return matched[i].EmployeeID < matched[j].EmployeeID
	})
	return page(matched, offset, limit), int64(len(matched)), nil
}

// ── Mock PayHistoryRepository ──

type mockPayHistoryRepo struct {
	rows      []model.PayHistory
	createErr error
}

func (m *mockPayHistoryRepo) Create(_ context.Context, p *model.PayHistory) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, r := range m.rows {
		if r.EmployeeID == p.EmployeeID && r.RateChangeDate.Equal(p.RateChangeDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	m.rows = append(m.rows, *p)
	return nil
}

func (m *mockPayHistoryRepo) ListByEmployee(_ context.Context, employeeID int32) ([]model.PayHistory, error) {
	var result []model.PayHistory
	for _, r := range m.rows {
		if r.EmployeeID == employeeID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RateChangeDate.After(result[j].RateChangeDate) })
	return result, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	mu   sync.Mutex
	rows []*model.Notification
	err  error
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if n.NotificationID == "" {
		n.NotificationID = fmt.Sprintf("00000000-0000-0000-0000-%012d", len(m.rows)+1)
	}
	m.rows = append(m.rows, n)
	return nil
}

func (m *mockNotificationRepo) List(_ context.Context, unreadOnly bool, limit int) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Notification
	for i := len(m.rows) - 1; i >= 0 && len(result) < limit; i-- {
		if unreadOnly && m.rows[i].IsRead {
			continue
		}
		result = append(result, *m.rows[i])
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.NotificationID == id {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
	err     error
}

func (m *mockAuditLogRepo) Create(_ context.Context, entry *model.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.LogID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditLogRepo) ListPaged(_ context.Context, offset, limit int) ([]model.AuditLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.AuditLog, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		result = append(result, m.entries[i])
	}
	return page(result, offset, limit), int64(len(m.entries)), nil
}

func (m *mockAuditLogRepo) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.entries {
		out = append(out, e.Level+":"+e.Action)
	}
	return out
}

// ── Mock JobCandidateRepository ──

type mockJobCandidateRepo struct {
	rows     map[int32]model.JobCandidate
	nextID   int32
	writeErr error
}

func newMockJobCandidateRepo() *mockJobCandidateRepo {
	return &mockJobCandidateRepo{rows: make(map[int32]model.JobCandidate)}
}

func (m *mockJobCandidateRepo) Create(_ context.Context, c *model.JobCandidate) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.nextID++
	c.JobCandidateID = m.nextID
	m.rows[c.JobCandidateID] = *c
	return nil
}

func (m *mockJobCandidateRepo) GetByID(_ context.Context, id int32) (*model.JobCandidate, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (m *mockJobCandidateRepo) ListPaged(_ context.Context, offset, limit int) ([]model.JobCandidate, int64, error) {
	result := make([]model.JobCandidate, 0, len(m.rows))
	for _, c := range m.rows {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].JobCandidateID < result[j].JobCandidateID })
	return page(result, offset, limit), int64(len(result)), nil
}

func (m *mockJobCandidateRepo) Update(_ context.Context, c *model.JobCandidate) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.rows[c.JobCandidateID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.rows[c.JobCandidateID] = *c
	return nil
}

func (m *mockJobCandidateRepo) Delete(_ context.Context, id int32) error {
	if _, ok := m.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rows, id)
	return nil
}

// ── recording notifier ──

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*model.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg *model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

// ── fixture ──

type testRepos struct {
	repo          *repository.Repository
	users         *mockUserRepo
	employees     *mockEmployeeRepo
	departments   *mockDepartmentRepo
	history       *mockDepartmentHistoryRepo
	payHistory    *mockPayHistoryRepo
	notifications *mockNotificationRepo
	auditLogs     *mockAuditLogRepo
	candidates    *mockJobCandidateRepo
}

func newTestRepos() *testRepos {
	emps := newMockEmployeeRepo(
		model.Employee{EmployeeID: 100, FirstName: "Ken", LastName: "Sanchez", JobTitle: "Chief Executive Officer", Active: true},
		model.Employee{EmployeeID: 1001, FirstName: "Terri", LastName: "Duffy", JobTitle: "VP Engineering", Active: true},
		model.Employee{EmployeeID: 7, FirstName: "Anna", LastName: "Miller", JobTitle: "Engineer", Active: true},
		model.Employee{EmployeeID: 3, FirstName: "Joanna", LastName: "Smith", JobTitle: "Buyer", Active: true},
		model.Employee{EmployeeID: 12, FirstName: "Bob", LastName: "Hannover", JobTitle: "Technician", Active: true},
	)
	depts := newMockDepartmentRepo(
		model.Department{DepartmentID: 1, Name: "Engineering", GroupName: "Research and Development"},
		model.Department{DepartmentID: 2, Name: "Tool Design", GroupName: "Research and Development"},
		model.Department{DepartmentID: 3, Name: "Sales", GroupName: "Sales and Marketing"},
	)

	tr := &testRepos{
		users:         newMockUserRepo(),
		employees:     emps,
		departments:   depts,
		history:       newMockDepartmentHistoryRepo(depts, emps),
		payHistory:    &mockPayHistoryRepo{},
		notifications: &mockNotificationRepo{},
		auditLogs:     &mockAuditLogRepo{},
		candidates:    newMockJobCandidateRepo(),
	}
	tr.repo = &repository.Repository{
		User:              tr.users,
		Employee:          tr.employees,
		Department:        tr.departments,
		DepartmentHistory: tr.history,
		PayHistory:        tr.payHistory,
		Notification:      tr.notifications,
		AuditLog:          tr.auditLogs,
		JobCandidate:      tr.candidates,
	}
	return tr
}

func (tr *testRepos) recorder() EventRecorder {
	return NewEventRecorder(tr.auditLogs, zap.NewNop())
}

// ── helpers ──

func matchesSearch(search string, id int32, first, last string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	if n, err := strconv.ParseInt(search, 10, 64); err == nil && n >= 0 {
		return int64(id) == n
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(first), s) || strings.Contains(strings.ToLower(last), s)
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func date(s string) time.Time {
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }
