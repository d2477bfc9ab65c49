package models

// MedicationRoute enumerates the accepted administration routes.
type MedicationRoute string

const (
	RouteOral        MedicationRoute = "oral"
	RouteTopical     MedicationRoute = "topical"
	RouteInhaled     MedicationRoute = "inhaled"
	RouteInjection   MedicationRoute = "injection"
	RouteSublingual  MedicationRoute = "sublingual"
	RouteRectal      MedicationRoute = "rectal"
	RouteTransdermal MedicationRoute = "transdermal"
	RouteOther       MedicationRoute = "other"
)

// ValidRoutes lists every accepted administration route.
var ValidRoutes = []MedicationRoute{
	RouteOral, RouteTopical, RouteInhaled, RouteInjection,
	RouteSublingual, RouteRectal, RouteTransdermal, RouteOther,
}

// IsValidRoute reports whether value is an accepted administration route.
func IsValidRoute(value string) bool {
	for _, r := range ValidRoutes {
		if string(r) == value {
			return true
		}
	}
	return false
}

// MedicationStatus enumerates the lifecycle states of a medication record.
type MedicationStatus string

const (
	StatusActive       MedicationStatus = "active"
	StatusInactive     MedicationStatus = "inactive"
	StatusDiscontinued MedicationStatus = "discontinued"
	StatusPending      MedicationStatus = "pending"
)

// ValidStatuses lists every accepted medication status.
var ValidStatuses = []MedicationStatus{StatusActive, StatusInactive, StatusDiscontinued, StatusPending}

// IsValidStatus reports whether value is an accepted medication status.
func IsValidStatus(value string) bool {
	for _, s := range ValidStatuses {
		if string(s) == value {
			return true
		}
	}
	return false
}

// ValidSchedules lists the DEA controlled substance schedules.
var ValidSchedules = []string{"I", "II", "III", "IV", "V"}

// IsValidSchedule reports whether value is a controlled substance schedule.
func IsValidSchedule(value string) bool {
	for _, s := range ValidSchedules {
		if s == value {
			return true
		}
	}
	return false
}

// Medication is a medication record as held by the upstream system of
// record. Dosage and frequency are free text ("500mg", "Twice daily").
type Medication struct {
	ID                          string           `json:"id,omitempty"`
	Name                        string           `json:"name"`
	GenericName                 string           `json:"genericName,omitempty"`
	BrandName                   string           `json:"brandName,omitempty"`
	Dosage                      string           `json:"dosage"`
	Frequency                   string           `json:"frequency"`
	Route                       MedicationRoute  `json:"route"`
	Prescriber                  string           `json:"prescriber"`
	PrescriberNPI               string           `json:"prescriberNPI,omitempty"`
	Pharmacy                    string           `json:"pharmacy,omitempty"`
	PrescriptionNumber          string           `json:"prescriptionNumber,omitempty"`
	StartDate                   string           `json:"startDate"` // YYYY-MM-DD
	EndDate                     string           `json:"endDate,omitempty"`
	Status                      MedicationStatus `json:"status"`
	IsControlled                bool             `json:"isControlled"`
	ControlledSubstanceSchedule string           `json:"controlledSubstanceSchedule,omitempty"` // Meaningful only when IsControlled
	Instructions                string           `json:"instructions,omitempty"`
	Notes                       string           `json:"notes,omitempty"`
	CreatedBy                   string           `json:"createdBy,omitempty"`
	UpdatedBy                   string           `json:"updatedBy,omitempty"`
}
