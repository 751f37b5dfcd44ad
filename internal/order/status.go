package order

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Stage describes how a status renders in the linear order-progress view.
// Cancelled is terminal and sits outside the 1..4 progression: Terminal is
// true and the progress bar is not drawn at all.
type Stage struct {
	Step     int
	Percent  int
	Label    string
	Icon     string
	Color    string
	Terminal bool
}

var stages = map[Status]Stage{
	StatusPending:    {Step: 1, Percent: 25, Label: "Pending", Icon: "clock", Color: "amber"},
	StatusProcessing: {Step: 2, Percent: 50, Label: "Processing", Icon: "package", Color: "blue"},
	StatusShipped:    {Step: 3, Percent: 75, Label: "Shipped", Icon: "truck", Color: "indigo"},
	StatusDelivered:  {Step: 4, Percent: 100, Label: "Delivered", Icon: "check-circle", Color: "green"},
	StatusCancelled:  {Step: 0, Percent: 0, Label: "Cancelled", Icon: "x-circle", Color: "red", Terminal: true},
}

// Stage maps a status to its display stage. Unknown or empty statuses fall
// back to the pending stage rather than an error state.
func (s Status) Stage() Stage {
	if st, ok := stages[s]; ok {
		return st
	}
	return stages[StatusPending]
}

// ParseStatus normalizes a raw status string. Unknown values parse as
// pending, matching the display fallback.
func ParseStatus(raw string) Status {
	s := Status(raw)
	if _, ok := stages[s]; ok {
		return s
	}
	return StatusPending
}
