package job

// Status is a stage in the sales pipeline. The catalog is ordered for
// pipeline visualization only; any status may be set from any other, there is
// no enforced transition graph.
type Status string

const (
	StatusLead             Status = "lead"
	StatusAppointmentSet   Status = "appointment_set"
	StatusProspect         Status = "prospect"
	StatusApproved         Status = "approved"
	StatusProjectScheduled Status = "project_scheduled"
	StatusCompleted        Status = "completed"
	StatusInvoiced         Status = "invoiced"
	StatusLienLegal        Status = "lien_legal"
	StatusClosedDeal       Status = "closed_deal"
	StatusClosedLost       Status = "closed_lost"
)

// StatusInfo carries display metadata for the pipeline board.
type StatusInfo struct {
	Status Status
	Label  string
	Order  int
}

var pipeline = []StatusInfo{
	{StatusLead, "Lead", 0},
	{StatusAppointmentSet, "Appointment Set", 1},
	{StatusProspect, "Prospect", 2},
	{StatusApproved, "Approved", 3},
	{StatusProjectScheduled, "Project Scheduled", 4},
	{StatusCompleted, "Completed", 5},
	{StatusInvoiced, "Invoiced", 6},
	{StatusLienLegal, "Lien / Legal", 7},
	{StatusClosedDeal, "Closed Deal", 8},
	{StatusClosedLost, "Closed Lost", 9},
}

func Pipeline() []StatusInfo {
	out := make([]StatusInfo, len(pipeline))
	copy(out, pipeline)
	return out
}

func (s Status) Valid() bool {
	for _, info := range pipeline {
		if info.Status == s {
			return true
		}
	}
	return false
}

func (s Status) Label() string {
	for _, info := range pipeline {
		if info.Status == s {
			return info.Label
		}
	}
	return string(s)
}
