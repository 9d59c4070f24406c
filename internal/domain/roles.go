package domain

// Role enumerates the closed set of permission tiers. Access decisions go
// through Can rather than string comparisons at call sites.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleDispatcher Role = "DISPATCHER"
	RoleDriver     Role = "DRIVER"
	RoleAccounting Role = "ACCOUNTING"
	RoleSales      Role = "SALES"
	RoleSupport    Role = "SUPPORT"
)

// Capability names an action a role may perform.
type Capability string

const (
	CapabilityManageUsers      Capability = "MANAGE_USERS"
	CapabilityDispatchLoads    Capability = "DISPATCH_LOADS"
	CapabilityViewLoads        Capability = "VIEW_LOADS"
	CapabilityManageFinancials Capability = "MANAGE_FINANCIALS"
	CapabilityViewReports      Capability = "VIEW_REPORTS"
	CapabilityHandleSupport    Capability = "HANDLE_SUPPORT"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleAdmin: capSet(
		CapabilityManageUsers,
		CapabilityDispatchLoads,
		CapabilityViewLoads,
		CapabilityManageFinancials,
		CapabilityViewReports,
		CapabilityHandleSupport,
	),
	RoleSupervisor: capSet(
		CapabilityManageUsers,
		CapabilityDispatchLoads,
		CapabilityViewLoads,
		CapabilityViewReports,
	),
	RoleDispatcher: capSet(
		CapabilityDispatchLoads,
		CapabilityViewLoads,
	),
	RoleDriver: capSet(
		CapabilityViewLoads,
	),
	RoleAccounting: capSet(
		CapabilityManageFinancials,
		CapabilityViewReports,
	),
	RoleSales: capSet(
		CapabilityViewLoads,
		CapabilityViewReports,
	),
	RoleSupport: capSet(
		CapabilityHandleSupport,
		CapabilityViewLoads,
	),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can is the single policy check: does this role hold the capability.
// Unknown roles hold nothing.
func (r Role) Can(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	_, granted := caps[cap]
	return granted
}
