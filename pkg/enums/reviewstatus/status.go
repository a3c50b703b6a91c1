// Package reviewstatus is the owner review lifecycle shared by financial
// reports and item requests.
package reviewstatus

import "errors"

var ErrNotPending = errors.New("only pending records can be reviewed")

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

type Enum struct {
	Pending  Status
	Approved Status
	Rejected Status
}

var Statuses = Enum{
	Pending:  Status{Name: "pending"},
	Approved: Status{Name: "approved"},
	Rejected: Status{Name: "rejected"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Approved,
	Statuses.Rejected,
}

func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

func Valid(name string) bool {
	return ByName(name) != nil
}

// Decide moves current to approved or rejected. Reviews are final.
func Decide(current string, approve bool) (string, error) {
	if current != Statuses.Pending.Code() {
		return current, ErrNotPending
	}
	if approve {
		return Statuses.Approved.Code(), nil
	}
	return Statuses.Rejected.Code(), nil
}
