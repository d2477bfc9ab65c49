package validation

import (
	"github.com/schoolmed/healthdesk/internal/app/models"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
)

// Field error messages for medication records.
const (
	msgMedNameReq       = "Medication name is required"
	msgDosageReq        = "Dosage is required"
	msgFrequencyReq     = "Frequency is required"
	msgPrescriberReq    = "Prescriber is required"
	msgStartDateReq     = "Start date is required"
	msgStartDateFormat  = "Start date must be a valid date in YYYY-MM-DD format"
	msgEndDateFormat    = "End date must be a valid date in YYYY-MM-DD format"
	msgRoute            = "Route must be one of oral, topical, inhaled, injection, sublingual, rectal, transdermal, other"
	msgStatus           = "Status must be one of active, inactive, discontinued, pending"
	msgSchedule         = "Controlled substance schedule must be one of I, II, III, IV, V"
	msgEmptyUpdateMed   = "At least one field must be provided for update"
	msgScheduleOrphaned = "Controlled substance schedule requires the medication to be marked controlled"
)

// ValidateMedicationCreate checks a medication creation draft. Required
// fields (name, dosage, frequency, prescriber, startDate) block submission
// before any network call; route and status default on success.
func (v *Validator) ValidateMedicationCreate(req *dto.CreateMedicationRequest) *Result {
	res := newResult()

	if isBlank(req.Name) {
		res.add("name", msgMedNameReq)
	}
	if isBlank(req.Dosage) {
		res.add("dosage", msgDosageReq)
	}
	if isBlank(req.Frequency) {
		res.add("frequency", msgFrequencyReq)
	}
	if isBlank(req.Prescriber) {
		res.add("prescriber", msgPrescriberReq)
	}

	if isBlank(req.StartDate) {
		res.add("startDate", msgStartDateReq)
	} else if _, ok := parseDate(req.StartDate); !ok {
		res.add("startDate", msgStartDateFormat)
	}

	// Defaults for the blank enums, invalid non-blank values are errors
	if isBlank(req.Route) {
		req.Route = string(models.RouteOral)
	} else if !models.IsValidRoute(req.Route) {
		res.add("route", msgRoute)
	}

	if isBlank(req.Status) {
		req.Status = string(models.StatusActive)
	} else if !models.IsValidStatus(req.Status) {
		res.add("status", msgStatus)
	}

	if isBlank(req.EndDate) {
		req.EndDate = ""
	} else if _, ok := parseDate(req.EndDate); !ok {
		res.add("endDate", msgEndDateFormat)
	}

	if isBlank(req.ControlledSubstanceSchedule) {
		req.ControlledSubstanceSchedule = ""
	} else if !models.IsValidSchedule(req.ControlledSubstanceSchedule) {
		res.add("controlledSubstanceSchedule", msgSchedule)
	} else if !req.IsControlled {
		res.add("controlledSubstanceSchedule", msgScheduleOrphaned)
	}

	return res
}

// ValidateMedicationUpdate checks a partial medication patch. An empty
// patch is an error; supplied fields are held to the create rules.
func (v *Validator) ValidateMedicationUpdate(req *dto.UpdateMedicationRequest) *Result {
	res := newResult()

	if req.IsEmpty() {
		res.add(FormErrorKey, msgEmptyUpdateMed)
		return res
	}

	if req.Name != nil && isBlank(*req.Name) {
		res.add("name", msgMedNameReq)
	}
	if req.Dosage != nil && isBlank(*req.Dosage) {
		res.add("dosage", msgDosageReq)
	}
	if req.Frequency != nil && isBlank(*req.Frequency) {
		res.add("frequency", msgFrequencyReq)
	}
	if req.Prescriber != nil && isBlank(*req.Prescriber) {
		res.add("prescriber", msgPrescriberReq)
	}

	if req.StartDate != nil {
		if isBlank(*req.StartDate) {
			res.add("startDate", msgStartDateReq)
		} else if _, ok := parseDate(*req.StartDate); !ok {
			res.add("startDate", msgStartDateFormat)
		}
	}

	if req.EndDate != nil && !isBlank(*req.EndDate) {
		if _, ok := parseDate(*req.EndDate); !ok {
			res.add("endDate", msgEndDateFormat)
		}
	}

	if req.Route != nil && !models.IsValidRoute(*req.Route) {
		res.add("route", msgRoute)
	}

	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		res.add("status", msgStatus)
	}

	if req.ControlledSubstanceSchedule != nil && !isBlank(*req.ControlledSubstanceSchedule) &&
		!models.IsValidSchedule(*req.ControlledSubstanceSchedule) {
		res.add("controlledSubstanceSchedule", msgSchedule)
	}

	return res
}
