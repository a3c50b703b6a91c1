package station

import "strings"

type Station struct {
	Name string
}

func (s Station) Code() string {
	return s.Name
}

// Label renders "coffee-bar" as "Coffee Bar".
func (s Station) Label() string {
	parts := strings.Split(s.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Kitchen   Station
	CoffeeBar Station
}

var Stations = Enum{
	Kitchen:   Station{Name: "kitchen"},
	CoffeeBar: Station{Name: "coffee-bar"},
}

var All = []Station{
	Stations.Kitchen,
	Stations.CoffeeBar,
}

// ByName returns the station for a given name, or nil if not found
func ByName(name string) *Station {
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
