package leave

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/repository/kv"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/service/directory"
	"github.com/stretchr/testify/require"
)

// Monday 2025-03-10 09:00 UTC
var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	dir        *directory.Directory
	router     *ApprovalRouter
	attendance attendance.AttendanceRepository
	leaves     leave.LeaveRequestRepository
	service    leave.LeaveService
}

type person struct {
	id     string
	dept   string
	status employee.EmploymentStatus
	dayOff string
	roles  []string
}

// staff is the university used across the leave tests.
var staff = []person{
	{id: "pres", dept: "humanities", roles: []string{employee.RolePresident}},
	{id: "vp", dept: "humanities", status: employee.EmploymentStatusResigned, roles: []string{"Vice President"}},
	{id: "dean-eng", dept: "engineering", roles: []string{employee.RoleDean}},
	{id: "dean-med", dept: "medicine", roles: []string{employee.RoleDean}},
	{id: "vdean-eng", dept: "engineering", roles: []string{employee.RoleViceDean}},
	{id: "hr-eng", dept: "engineering", roles: []string{employee.HRRepresentativeRole("Engineering")}},
	{id: "hr-med", dept: "medicine", status: employee.EmploymentStatusNoticePeriod, roles: []string{employee.HRRepresentativeRole("Medicine")}},
	{id: "hr-mgr", dept: "business", roles: []string{"HR_Manager"}},
	{id: "doc", dept: "medicine", roles: []string{employee.RoleMedicalDoctor}},
	{id: "prof", dept: "engineering", roles: []string{"Professor"}},
	{id: "lect", dept: "engineering", dayOff: "Monday", roles: []string{"Lecturer"}},
	{id: "ta", dept: "business", roles: []string{"Teaching Assistant"}},
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, kvstore.NewMemory())
}

// failingStore accepts the first allow writes under failPrefix and rejects the rest.
type failingStore struct {
	*kvstore.Memory
	failPrefix string
	allow      int

	mu     sync.Mutex
	writes int
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if strings.HasPrefix(key, s.failPrefix) {
		s.mu.Lock()
		s.writes++
		rejected := s.writes > s.allow
		s.mu.Unlock()
		if rejected {
			return errors.New("store unavailable")
		}
	}
	return s.Memory.Set(ctx, key, value)
}

func newTestEnvWithStore(t *testing.T, store kvstore.Store) *testEnv {
	t.Helper()
	ctx := context.Background()

	dir := directory.NewDirectory(
		kv.NewEmployeeRepository(store),
		kv.NewRoleRepository(store),
		kv.NewDepartmentRepository(store),
		kv.NewRoleAssignmentRepository(store),
	)
	require.NoError(t, dir.SeedDefaults(ctx))

	for _, p := range staff {
		status := p.status
		if status == "" {
			status = employee.EmploymentStatusActive
		}
		dayOff := p.dayOff
		if dayOff == "" {
			dayOff = "Sunday"
		}
		require.NoError(t, dir.EmployeeRepository.Save(ctx, employee.Employee{
			ID:                p.id,
			FullName:          p.id,
			DepartmentID:      p.dept,
			ContractType:      employee.ContractTypeFullTime,
			EmploymentStatus:  status,
			AnnualBalance:     10,
			AccidentalBalance: 2,
			OfficialDayOff:    dayOff,
		}))
		for _, role := range p.roles {
			require.NoError(t, dir.RoleAssignmentRepository.Assign(ctx, employee.RoleAssignment{EmployeeID: p.id, RoleID: fixtures.RoleID(role)}))
		}
	}

	env := &testEnv{
		dir:        dir,
		router:     NewApprovalRouter(dir),
		attendance: kv.NewAttendanceRepository(store),
		leaves:     kv.NewLeaveRequestRepository(store),
	}
	env.service = NewLeaveService(
		env.leaves,
		kv.NewPayloadRepository(store),
		kv.NewApprovalRepository(store),
		env.attendance,
		dir,
		env.router,
		keylock.New(),
		func() time.Time { return testNow },
	)
	return env
}

func (env *testEnv) submit(t *testing.T, req leave.SubmitLeaveRequest) leave.SubmitLeaveResponse {
	t.Helper()
	resp, err := env.service.SubmitLeave(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func (env *testEnv) decide(t *testing.T, leaveID, approverID string, status leave.ApprovalStatus) leave.DecisionResponse {
	t.Helper()
	resp, err := env.service.DecideApproval(context.Background(), leave.DecideApprovalRequest{
		LeaveID:    leaveID,
		ApproverID: approverID,
		Status:     string(status),
	})
	require.NoError(t, err)
	return resp
}

func (env *testEnv) approveAll(t *testing.T, submitted leave.SubmitLeaveResponse) leave.DecisionResponse {
	t.Helper()
	var last leave.DecisionResponse
	for _, approverID := range submitted.ApproverIDs {
		last = env.decide(t, submitted.Leave.ID, approverID, leave.ApprovalStatusApproved)
		if last.FinalStatus != leave.ApprovalStatusPending {
			break
		}
	}
	return last
}

func (env *testEnv) balances(t *testing.T, id string) (int, int) {
	t.Helper()
	e, err := env.dir.GetEmployee(context.Background(), id)
	require.NoError(t, err)
	return e.AnnualBalance, e.AccidentalBalance
}

func strPtr(s string) *string { return &s }

func minutes(n int) *int { return &n }
