package auth

import "github.com/zeronista/retailops/internal/model"

// LoginPath is the fallback destination when no dashboard role matches.
const LoginPath = "/login"

// dashboardRoutes is the ordered (role, destination) dispatch table.
// Evaluation stops at the first role the user holds, so a user with
// several roles always lands on the highest-priority dashboard.
var dashboardRoutes = []struct {
	role model.Role
	path string
}{
	{model.RoleAdmin, "/dashboard/admin"},
	{model.RoleInventoryManager, "/dashboard/inventory"},
	{model.RoleMarketingManager, "/dashboard/marketing"},
	{model.RoleSalesManager, "/dashboard/sales"},
}

// DashboardFor resolves the dashboard destination for a user's role
// set, falling back to the login page when nothing matches.
func DashboardFor(user *model.User) string {
	if user == nil {
		return LoginPath
	}
	for _, route := range dashboardRoutes {
		if user.HasRole(route.role) {
			return route.path
		}
	}
	return LoginPath
}
