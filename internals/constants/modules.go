package constants

import "time"

// Content modules
const (
	ModuleErpr   = "erpr"
	ModuleTajwid = "tajwid"
	ModuleBoth   = "both"
)

var ContentModules = []string{ModuleErpr, ModuleTajwid}

func IsContentModule(m string) bool {
	return m == ModuleErpr || m == ModuleTajwid
}

// IsSubscriptionModule also accepts "both".
func IsSubscriptionModule(m string) bool {
	return IsContentModule(m) || m == ModuleBoth
}

// Subscription states stored on users.subscription_status
const (
	SubscriptionNone     = "none"
	SubscriptionTrial    = "trial"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionExpired  = "expired"
)

var SubscriptionStatuses = []string{
	SubscriptionNone,
	SubscriptionTrial,
	SubscriptionActive,
	SubscriptionCanceled,
	SubscriptionExpired,
}

// Plans
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

func PlanDuration(plan string) time.Duration {
	switch plan {
	case PlanMonthly:
		return 30 * 24 * time.Hour
	case PlanYearly:
		return 365 * 24 * time.Hour
	}
	return 0
}
