package axolotls

// Gender del ejemplar.
// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

// HealthStatus es el estado de salud; también es la categoría del filtro y de los conteos.
// @Enum healthy, sick, critical, treatment
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthSick      HealthStatus = "sick"
	HealthCritical  HealthStatus = "critical"
	HealthTreatment HealthStatus = "treatment"
)

func (h HealthStatus) Valid() bool {
	switch h {
	case HealthHealthy, HealthSick, HealthCritical, HealthTreatment:
		return true
	}
	return false
}

// StatusAll es el valor centinela del filtro de estado ("todos").
const StatusAll = "all"
