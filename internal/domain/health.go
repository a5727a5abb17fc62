package domain

type HealthStatus int

const (
	HealthUnknown HealthStatus = iota
	HealthServing
	HealthNotServing
	HealthUnimplemented
)

func (s HealthStatus) String() string {
	switch s {
	case HealthServing:
		return "SERVING"
	case HealthNotServing:
		return "NOT_SERVING"
	case HealthUnimplemented:
		return "UNIMPLEMENTED"
	default:
		return "UNKNOWN"
	}
}
