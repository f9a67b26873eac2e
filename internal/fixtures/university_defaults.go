package fixtures

import (
	"strings"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// ==========================================
// DEFAULT DEPARTMENTS
// ==========================================

// GetDefaultDepartments returns the faculties seeded into an empty store
func GetDefaultDepartments() []employee.Department {
	return []employee.Department{
		{ID: "engineering", Name: "Engineering"},
		{ID: "medicine", Name: "Medicine"},
		{ID: "business", Name: "Business"},
		{ID: "humanities", Name: "Humanities"},
	}
}

// ==========================================
// DEFAULT ROLES
// ==========================================

type roleDef struct {
	name       string
	rank       int
	baseSalary int64
}

var universityRoles = []roleDef{
	{name: employee.RolePresident, rank: 1, baseSalary: 15000},
	{name: "Vice President", rank: 2, baseSalary: 12000},
	{name: employee.RoleDean, rank: 3, baseSalary: 9000},
	{name: "HR_Manager", rank: 3, baseSalary: 8000},
	{name: employee.RoleViceDean, rank: 4, baseSalary: 8000},
	{name: employee.RoleMedicalDoctor, rank: 6, baseSalary: 6500},
	{name: "Professor", rank: 6, baseSalary: 6000},
	{name: "Lecturer", rank: 7, baseSalary: 4500},
	{name: "Teaching Assistant", rank: 8, baseSalary: 3000},
}

// GetDefaultRoles returns the university role ladder plus one HR
// representative role per department.
func GetDefaultRoles(departments []employee.Department) []employee.Role {
	roles := make([]employee.Role, 0, len(universityRoles)+len(departments))
	for _, def := range universityRoles {
		roles = append(roles, newRole(def.name, def.rank, def.baseSalary))
	}
	for _, d := range departments {
		roles = append(roles, newRole(employee.HRRepresentativeRole(d.Name), 5, 5000))
	}
	return roles
}

// RoleID derives the stable id a default role is stored under
func RoleID(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

func newRole(name string, rank int, baseSalary int64) employee.Role {
	return employee.Role{
		ID:                       RoleID(name),
		Name:                     name,
		Rank:                     rank,
		BaseSalary:               decimal.NewFromInt(baseSalary),
		PercentageYOE:            decimal.NewFromInt(2),
		PercentageOvertime:       decimal.NewFromInt(150),
		DefaultAnnualBalance:     21,
		DefaultAccidentalBalance: 6,
	}
}
