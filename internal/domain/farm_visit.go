package domain

import "time"

// Farm visit status values
const (
	VisitPending   = "pending"
	VisitApproved  = "approved"
	VisitRejected  = "rejected"
	VisitCancelled = "cancelled"
	VisitCompleted = "completed"
)

// VisitWorkflow: pending -> approved | rejected | cancelled; approved -> completed | cancelled.
var VisitWorkflow = Workflow{
	entity: "farm_visit",
	next: map[string][]string{
		VisitPending:  {VisitApproved, VisitRejected, VisitCancelled},
		VisitApproved: {VisitCompleted, VisitCancelled},
	},
}

// MaxVisitGuests bounds the party size of one booking.
const MaxVisitGuests = 10

// FarmVisit maps the farm_visits table. VisitTime is "HH:MM".
type FarmVisit struct {
	ID         string    `db:"id" json:"id"`
	InvestorID string    `db:"investor_id" json:"investor_id"`
	FarmID     string    `db:"farm_id" json:"farm_id"`
	VisitDate  time.Time `db:"visit_date" json:"visit_date"`
	VisitTime  string    `db:"visit_time" json:"visit_time"`
	Guests     int       `db:"guests" json:"guests"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	Status     string    `db:"status" json:"status"`
	AdminNotes *string   `db:"admin_notes" json:"admin_notes,omitempty"`
	ReviewedBy *string   `db:"reviewed_by" json:"reviewed_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
