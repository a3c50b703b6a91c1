package priority

type Priority struct {
	Name string
}

func (p Priority) Code() string {
	return p.Name
}

type Enum struct {
	Low    Priority
	Medium Priority
	High   Priority
}

var Priorities = Enum{
	Low:    Priority{Name: "low"},
	Medium: Priority{Name: "medium"},
	High:   Priority{Name: "high"},
}

var All = []Priority{
	Priorities.Low,
	Priorities.Medium,
	Priorities.High,
}

func ByName(name string) *Priority {
	for _, p := range All {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

func Valid(name string) bool {
	return ByName(name) != nil
}
