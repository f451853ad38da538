package readable

import "strings"

// Breakpoint is a named screen-width range. An empty Min or Max leaves that
// side of the range open.
type Breakpoint struct {
	Name string
	Min  string
	Max  string
}

// Breakpoints is an ordered breakpoint table; the order is the order the
// device names appear in the device patterns.
type Breakpoints []Breakpoint

// DefaultBreakpoints returns the mobile/tablet/laptop/desktop table.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{
		{Name: "mobile", Max: "575px"},
		{Name: "tablet", Min: "576px", Max: "959px"},
		{Name: "laptop", Min: "960px", Max: "1439px"},
		{Name: "desktop", Min: "1440px"},
	}
}

func (bs Breakpoints) Lookup(name string) (Breakpoint, bool) {
	for _, b := range bs {
		if b.Name == name {
			return b, true
		}
	}
	return Breakpoint{}, false
}

func (bs Breakpoints) Names() []string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
	}
	return names
}

// alternatives renders the names as a comma-separated pattern group body.
func (bs Breakpoints) alternatives() string {
	return strings.Join(bs.Names(), ",")
}
