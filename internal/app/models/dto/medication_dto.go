package dto

// CreateMedicationRequest is the draft a form submits to create a
// medication record. Route and status default when left blank; dosage and
// frequency are free text ("500mg", "Twice daily").
type CreateMedicationRequest struct {
	Name                        string `json:"name" example:"Amoxicillin"`
	GenericName                 string `json:"genericName,omitempty" example:"amoxicillin"`
	BrandName                   string `json:"brandName,omitempty" example:"Amoxil"`
	Dosage                      string `json:"dosage" example:"500mg"`
	Frequency                   string `json:"frequency" example:"Twice daily"`
	Route                       string `json:"route,omitempty" example:"oral" enums:"oral,topical,inhaled,injection,sublingual,rectal,transdermal,other"`
	Prescriber                  string `json:"prescriber" example:"Dr. Chen"`
	PrescriberNPI               string `json:"prescriberNPI,omitempty" example:"1234567893"`
	Pharmacy                    string `json:"pharmacy,omitempty" example:"Main St Pharmacy"`
	PrescriptionNumber          string `json:"prescriptionNumber,omitempty" example:"RX-88231"`
	StartDate                   string `json:"startDate" example:"2026-02-01"`
	EndDate                     string `json:"endDate,omitempty" example:"2026-02-14"`
	Status                      string `json:"status,omitempty" example:"active" enums:"active,inactive,discontinued,pending"`
	IsControlled                bool   `json:"isControlled,omitempty"`
	ControlledSubstanceSchedule string `json:"controlledSubstanceSchedule,omitempty" example:"II" enums:"I,II,III,IV,V"`
	Instructions                string `json:"instructions,omitempty" example:"Take with food"`
	Notes                       string `json:"notes,omitempty"`

	CreatedBy string `json:"-"`
}

// UpdateMedicationRequest is a partial patch against an existing
// medication record. Only supplied fields change; an empty patch is
// rejected.
type UpdateMedicationRequest struct {
	Name                        *string `json:"name,omitempty"`
	GenericName                 *string `json:"genericName,omitempty"`
	BrandName                   *string `json:"brandName,omitempty"`
	Dosage                      *string `json:"dosage,omitempty"`
	Frequency                   *string `json:"frequency,omitempty"`
	Route                       *string `json:"route,omitempty"`
	Prescriber                  *string `json:"prescriber,omitempty"`
	PrescriberNPI               *string `json:"prescriberNPI,omitempty"`
	Pharmacy                    *string `json:"pharmacy,omitempty"`
	PrescriptionNumber          *string `json:"prescriptionNumber,omitempty"`
	StartDate                   *string `json:"startDate,omitempty"`
	EndDate                     *string `json:"endDate,omitempty"`
	Status                      *string `json:"status,omitempty"`
	IsControlled                *bool   `json:"isControlled,omitempty"`
	ControlledSubstanceSchedule *string `json:"controlledSubstanceSchedule,omitempty"`
	Instructions                *string `json:"instructions,omitempty"`
	Notes                       *string `json:"notes,omitempty"`

	UpdatedBy string `json:"-"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (r *UpdateMedicationRequest) IsEmpty() bool {
	return r.Name == nil &&
		r.GenericName == nil &&
		r.BrandName == nil &&
		r.Dosage == nil &&
		r.Frequency == nil &&
		r.Route == nil &&
		r.Prescriber == nil &&
		r.PrescriberNPI == nil &&
		r.Pharmacy == nil &&
		r.PrescriptionNumber == nil &&
		r.StartDate == nil &&
		r.EndDate == nil &&
		r.Status == nil &&
		r.IsControlled == nil &&
		r.ControlledSubstanceSchedule == nil &&
		r.Instructions == nil &&
		r.Notes == nil
}

// Changes flattens the patch into the map recorded as audit "changes" and
// sent to the remote API.
func (r *UpdateMedicationRequest) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	put := func(key string, v *string) {
		if v != nil {
			changes[key] = *v
		}
	}
	put("name", r.Name)
	put("genericName", r.GenericName)
	put("brandName", r.BrandName)
	put("dosage", r.Dosage)
	put("frequency", r.Frequency)
	put("route", r.Route)
	put("prescriber", r.Prescriber)
	put("prescriberNPI", r.PrescriberNPI)
	put("pharmacy", r.Pharmacy)
	put("prescriptionNumber", r.PrescriptionNumber)
	put("startDate", r.StartDate)
	put("endDate", r.EndDate)
	put("status", r.Status)
	put("controlledSubstanceSchedule", r.ControlledSubstanceSchedule)
	put("instructions", r.Instructions)
	put("notes", r.Notes)
	if r.IsControlled != nil {
		changes["isControlled"] = *r.IsControlled
	}
	if r.UpdatedBy != "" {
		changes["updatedBy"] = r.UpdatedBy
	}
	return changes
}
