package report

// Status of a report. New reports start as StatusNew; any status is reachable
// from any other by explicit admin action, nothing is terminal.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// statusOrder is longest-first so callback suffix matching is unambiguous.
var statusOrder = []Status{StatusInProgress, StatusResolved, StatusRejected, StatusNew}

var statusLabels = map[Status]string{
	StatusNew:        "🆕 Новый",
	StatusInProgress: "🔄 В работе",
	StatusResolved:   "✅ Решено",
	StatusRejected:   "❌ Отклонено",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-facing status text.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Statuses returns every status in suffix-match order.
func Statuses() []Status {
	return statusOrder
}
