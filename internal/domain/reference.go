package domain

// TicketStatus is an enumerated lifecycle stage stored as a reference row.
type TicketStatus struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	SLAHours    int    `db:"sla_hours"`
}

// TicketPriority is an urgency reference row; listings order by sla_hours
// ascending so the most urgent priority comes first.
type TicketPriority struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	SLAHours    int    `db:"sla_hours"`
}

// ServiceLevel is a support tier (N1/N2/N3) referenced by users and tickets.
type ServiceLevel struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	SLAHours    int    `db:"sla_hours"`
}

// Named defaults applied on ticket creation.
const (
	DefaultStatusName       = "Open"
	DefaultPriorityName     = "Medium"
	DefaultServiceLevelName = "N1"
)
