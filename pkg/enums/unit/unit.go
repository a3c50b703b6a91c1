package unit

// Unit is the counting unit of an inventory product.
type Unit struct {
	Name string
}

func (u Unit) Code() string {
	return u.Name
}

type Enum struct {
	Kilogram Unit
	Gram     Unit
	Package  Unit
	Can      Unit
	Pieces   Unit
	Bottle   Unit
	Roll     Unit
	Sleeve   Unit
}

var Units = Enum{
	Kilogram: Unit{Name: "kg"},
	Gram:     Unit{Name: "gram"},
	Package:  Unit{Name: "no. of package"},
	Can:      Unit{Name: "no. of can"},
	Pieces:   Unit{Name: "pcs"},
	Bottle:   Unit{Name: "bottle"},
	Roll:     Unit{Name: "no. of roll"},
	Sleeve:   Unit{Name: "sleeve"},
}

var All = []Unit{
	Units.Kilogram,
	Units.Gram,
	Units.Package,
	Units.Can,
	Units.Pieces,
	Units.Bottle,
	Units.Roll,
	Units.Sleeve,
}

func ByName(name string) *Unit {
	for _, u := range All {
		if u.Name == name {
			return &u
		}
	}
	return nil
}

func Valid(name string) bool {
	return ByName(name) != nil
}
