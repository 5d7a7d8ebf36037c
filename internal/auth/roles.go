package auth

// Role labels. English and Persian spellings of the same role are distinct strings and
// every allow-list carries both.
const (
	RoleCEO            = "ceo"
	RoleCEOFa          = "مدیر"
	RoleSalesManager   = "sales_manager"
	RoleSalesManagerFa = "مدیر فروش"
	RoleSalesAgent     = "sales_agent"
	RoleSalesAgentFa   = "کارشناس فروش"
	RoleSupport        = "support"
	RoleSupportFa      = "پشتیبان"

	DefaultRole = RoleSalesAgent
)

var (
	Chiefs   = []string{RoleCEO, RoleCEOFa}
	Managers = []string{RoleCEO, RoleCEOFa, RoleSalesManager, RoleSalesManagerFa}

	KnownRoles = []string{
		RoleCEO, RoleCEOFa,
		RoleSalesManager, RoleSalesManagerFa,
		RoleSalesAgent, RoleSalesAgentFa,
		RoleSupport, RoleSupportFa,
	}
)

// Module names used by stored grants.
const (
	ModuleCustomers    = "customers"
	ModuleDeals        = "deals"
	ModuleTickets      = "tickets"
	ModuleFeedback     = "feedback"
	ModuleInteractions = "interactions"
	ModuleProducts     = "products"
	ModuleReports      = "reports"
	ModuleUsers        = "users"
)

var Modules = []string{
	ModuleCustomers,
	ModuleDeals,
	ModuleTickets,
	ModuleFeedback,
	ModuleInteractions,
	ModuleProducts,
	ModuleReports,
	ModuleUsers,
}

// ModuleLabels are the Persian display names seeded with each module.
var ModuleLabels = map[string]string{
	ModuleCustomers:    "مشتریان",
	ModuleDeals:        "معاملات",
	ModuleTickets:      "تیکت‌ها",
	ModuleFeedback:     "بازخوردها",
	ModuleInteractions: "تعاملات",
	ModuleProducts:     "محصولات",
	ModuleReports:      "گزارش‌ها",
	ModuleUsers:        "کاربران",
}

// RoleLabel returns the Persian label for an English role name, or the role unchanged.
func RoleLabel(role string) string {
	switch role {
	case RoleCEO:
		return RoleCEOFa
	case RoleSalesManager:
		return RoleSalesManagerFa
	case RoleSalesAgent:
		return RoleSalesAgentFa
	case RoleSupport:
		return RoleSupportFa
	}
	return role
}

func IsKnownRole(role string) bool {
	return contains(KnownRoles, role)
}

func IsKnownModule(module string) bool {
	return contains(Modules, module)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
