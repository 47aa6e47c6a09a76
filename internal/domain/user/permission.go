package user

type Permission string

const (
	// Pay cycles
	PermissionPayRunView     Permission = "payrun.view"
	PermissionPayRunManage   Permission = "payrun.manage"
	PermissionPayRunGenerate Permission = "payrun.generate"
	PermissionPayRunApprove  Permission = "payrun.approve"
	PermissionPayRunClose    Permission = "payrun.close"

	// Payments
	PermissionPaymentView   Permission = "payment.view"
	PermissionPaymentCreate Permission = "payment.create"
	PermissionPaymentManage Permission = "payment.manage"

	// Attendance
	PermissionAttendanceView   Permission = "attendance.view"
	PermissionAttendanceManage Permission = "attendance.manage"
	PermissionAttendanceScan   Permission = "attendance.scan"

	// Leave
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// QR credentials
	PermissionQRCodeManage Permission = "qrcode.manage"

	// Employees
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Companies
	PermissionCompanyView   Permission = "company.view"
	PermissionCompanyUpdate Permission = "company.update"
	PermissionCompanyManage Permission = "company.manage"

	// Users
	PermissionUserManage Permission = "user.manage"

	// Dashboards
	PermissionDashboardView Permission = "dashboard.view"
	PermissionGlobalStats   Permission = "stats.global"
)

var adminPermissions = []Permission{
	PermissionPayRunView,
	PermissionPayRunManage,
	PermissionPayRunGenerate,
	PermissionPayRunApprove,
	PermissionPayRunClose,
	PermissionPaymentView,
	PermissionPaymentCreate,
	PermissionPaymentManage,
	PermissionAttendanceView,
	PermissionAttendanceManage,
	PermissionAttendanceScan,
	PermissionLeaveViewOwn,
	PermissionLeaveCreate,
	PermissionLeaveViewAll,
	PermissionLeaveApprove,
	PermissionQRCodeManage,
	PermissionEmployeeView,
	PermissionEmployeeManage,
	PermissionCompanyView,
	PermissionCompanyUpdate,
	PermissionUserManage,
	PermissionDashboardView,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: append(append([]Permission{}, adminPermissions...),
		PermissionCompanyManage,
		PermissionGlobalStats,
	),
	RoleAdmin: adminPermissions,
	RoleCashier: {
		PermissionPayRunView,
		PermissionPaymentView,
		PermissionPaymentCreate,
		PermissionAttendanceView,
		PermissionAttendanceScan,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionEmployeeView,
		PermissionCompanyView,
		PermissionDashboardView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
