package category

import "strings"

// Category is the shift boundary a checklist task belongs to.
type Category struct {
	Name string
}

func (c Category) Code() string {
	return c.Name
}

func (c Category) Label() string {
	if len(c.Name) == 0 {
		return ""
	}
	return strings.ToUpper(c.Name[:1]) + c.Name[1:]
}

type Enum struct {
	Opening Category
	Closing Category
}

var Categories = Enum{
	Opening: Category{Name: "opening"},
	Closing: Category{Name: "closing"},
}

var All = []Category{
	Categories.Opening,
	Categories.Closing,
}

func ByName(name string) *Category {
	for _, c := range All {
		if c.Name == name {
			return &c
		}
	}
	return nil
}

func Valid(name string) bool {
	return ByName(name) != nil
}
