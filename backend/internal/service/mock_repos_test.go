package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pca-portal/backend/internal/model"
	"pca-portal/backend/internal/policy"
	"pca-portal/backend/internal/repository"
)

// ── Mock EntityRepository ──

type mockEntityRepo struct {
	entity *model.Entity
}

func (m *mockEntityRepo) Get(_ context.Context) (*model.Entity, error) {
	if m.entity == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.entity
	return &cp, nil
}

func (m *mockEntityRepo) Save(_ context.Context, entity *model.Entity) error {
	entity.ID = model.EntityID
	cp := *entity
	m.entity = &cp
	return nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts  map[uint]*model.Department
	nextID uint
	users  *mockUserRepo
	procs  *mockProcurementRepo
	// fkViolation simulates a dependent row the pre-check did not see
	fkViolation bool
}

func newMockDeptRepo() *mockDeptRepo {
	m := &mockDeptRepo{depts: make(map[uint]*model.Department), nextID: 1}
	m.depts[1] = &model.Department{ID: 1, Name: "Secretaria de Administração"}
	m.depts[2] = &model.Department{ID: 2, Name: "Secretaria de Saúde"}
	m.nextID = 3
	return m
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range m.depts {
		if d.Name == dept.Name {
			return repository.ErrDuplicate
		}
	}
	dept.ID = m.nextID
	m.nextID++
	cp := *dept
	m.depts[dept.ID] = &cp
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id uint) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	for _, d := range m.depts {
		if d.Name == dept.Name && d.ID != dept.ID {
			return repository.ErrDuplicate
		}
	}
	cp := *dept
	m.depts[dept.ID] = &cp
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.depts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	if m.fkViolation {
		return repository.ErrReferenced
	}
	delete(m.depts, id)
	return nil
}

func (m *mockDeptRepo) CountDependents(_ context.Context, id uint) (int64, int64, error) {
	var users, procs int64
	if m.users != nil {
		for _, u := range m.users.users {
			if u.DepartmentID == id {
				users++
			}
		}
	}
	if m.procs != nil {
		for _, p := range m.procs.items {
			if p.DepartmentID == id {
				procs++
			}
		}
	}
	return users, procs, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
	depts  *mockDeptRepo
	// writeErr forces Create and Update to fail, as a concurrent insert would
	writeErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

// add seeds a user with a real bcrypt digest of plain
func (m *mockUserRepo) add(login, plain string, deptID uint, email string) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &model.User{
		ID:           m.nextID,
		Name:         strings.ToUpper(login[:1]) + login[1:],
		Login:        login,
		PasswordHash: string(hash),
		DepartmentID: deptID,
	}
	if email != "" {
		u.Email = &email
	}
	m.nextID++
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepo) withDepartment(u *model.User) *model.User {
	cp := *u
	if m.depts != nil {
		if d, ok := m.depts.depts[u.DepartmentID]; ok {
			dept := *d
			cp.Department = &dept
		}
	}
	return &cp
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	for _, u := range m.users {
		if u.Login == user.Login {
			return &repository.DuplicateError{Constraint: repository.ConstraintUserLogin}
		}
		if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
			return &repository.DuplicateError{Constraint: repository.ConstraintUserEmail}
		}
	}
	user.ID = m.nextID
	m.nextID++
	cp := *user
	cp.Department = nil
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return m.withDepartment(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range m.users {
		if u.Login == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *m.withDepartment(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	existing, ok := m.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Name = user.Name
	existing.Login = user.Login
	existing.Email = user.Email
	existing.DepartmentID = user.DepartmentID
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uint, hash string, changedAt time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	u.PasswordChangedAt = &changedAt
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

// ── Mock ProcurementRepository ──

type mockProcurementRepo struct {
	items  map[uint]*model.Procurement
	nextID uint
	depts  *mockDeptRepo
	// failSetCode makes the second step of creation fail; the inserted row
	// is dropped the way a rolled back transaction would
	failSetCode bool
}

func newMockProcurementRepo() *mockProcurementRepo {
	return &mockProcurementRepo{items: make(map[uint]*model.Procurement), nextID: 1}
}

func (m *mockProcurementRepo) withDepartment(p *model.Procurement) model.Procurement {
	cp := *p
	if m.depts != nil {
		if d, ok := m.depts.depts[p.DepartmentID]; ok {
			dept := *d
			cp.Department = &dept
		}
	}
	return cp
}

func (m *mockProcurementRepo) Create(_ context.Context, p *model.Procurement) error {
	p.ID = m.nextID
	m.nextID++
	p.UpdatedAt = time.Now()
	cp := *p
	cp.Department = nil
	cp.Code = nil
	m.items[p.ID] = &cp
	return nil
}

func (m *mockProcurementRepo) SetCode(_ context.Context, id uint, code string) error {
	if m.failSetCode {
		return gorm.ErrInvalidTransaction
	}
	p, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Code = &code
	return nil
}

func (m *mockProcurementRepo) GetByID(_ context.Context, id uint) (*model.Procurement, error) {
	if p, ok := m.items[id]; ok {
		cp := m.withDepartment(p)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProcurementRepo) List(_ context.Context, f repository.ProcurementFilter) ([]model.Procurement, error) {
	result := []model.Procurement{}
	for _, p := range m.items {
		if f.DepartmentID != nil && p.DepartmentID != *f.DepartmentID {
			continue
		}
		if f.FiscalYear != nil && p.FiscalYear != *f.FiscalYear {
			continue
		}
		if f.Code != "" && !strings.Contains(p.CodeValue(), f.Code) {
			continue
		}
		result = append(result, m.withDepartment(p))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FiscalYear != result[j].FiscalYear {
			return result[i].FiscalYear > result[j].FiscalYear
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockProcurementRepo) Update(_ context.Context, p *model.Procurement) error {
	existing, ok := m.items[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	code := existing.Code
	cp := *p
	cp.Code = code
	cp.Department = nil
	cp.UpdatedAt = time.Now()
	m.items[p.ID] = &cp
	return nil
}

func (m *mockProcurementRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockProcurementRepo) LastModified(_ context.Context) (*time.Time, error) {
	var last *time.Time
	for _, p := range m.items {
		if last == nil || p.UpdatedAt.After(*last) {
			t := p.UpdatedAt
			last = &t
		}
	}
	return last, nil
}

func (m *mockProcurementRepo) FiscalYears(_ context.Context) ([]int, error) {
	seen := make(map[int]bool)
	var years []int
	for _, p := range m.items {
		if !seen[p.FiscalYear] {
			seen[p.FiscalYear] = true
			years = append(years, p.FiscalYear)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// ── Mock SessionStore ──

type mockSessionStore struct {
	revoked map[string]time.Duration
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{revoked: make(map[string]time.Duration)}
}

func (m *mockSessionStore) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *mockSessionStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── Mock mail.Sender ──

type sentMail struct {
	To, Subject, Body string
}

type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// ── fixtures ──

type testRepos struct {
	repo   *repository.Repository
	entity *mockEntityRepo
	depts  *mockDeptRepo
	users  *mockUserRepo
	procs  *mockProcurementRepo
}

// newTestRepos wires the mocks together. Seeded users: admin (dept 1) and
// saude (dept 2), both with password "senha-forte-123".
func newTestRepos() *testRepos {
	depts := newMockDeptRepo()
	users := newMockUserRepo()
	procs := newMockProcurementRepo()
	depts.users, depts.procs = users, procs
	users.depts = depts
	procs.depts = depts

	users.add(model.AdminLogin, testPassword, 1, "admin@modelo.gov.br")
	users.add("saude", testPassword, 2, "saude@modelo.gov.br")

	entity := &mockEntityRepo{}
	return &testRepos{
		repo: &repository.Repository{
			Entity:      entity,
			Department:  depts,
			User:        users,
			Procurement: procs,
		},
		entity: entity,
		depts:  depts,
		users:  users,
		procs:  procs,
	}
}

const testPassword = "senha-forte-123"

var (
	adminIdentity = &policy.Identity{UserID: 1, Login: model.AdminLogin, DepartmentID: 1}
	saudeIdentity = &policy.Identity{UserID: 2, Login: "saude", DepartmentID: 2}
)
