// Package options holds the static problem-type lookup the complaint filters
// and views are built from.
package options

import "github.com/civicdesk/complaint-dashboard/models"

type problem struct {
	name string
	code string
}

type category struct {
	name     string
	problems []problem
}

// catalogue is kept as an ordered literal so options render in a stable order.
// Codes are owned by the complaint intake app; 4003 is reserved for testing there.
var catalogue = []category{
	{"Municipal Complaints", []problem{
		{"Garbage Problem", "0001"},
		{"Broken Roads", "0002"},
		{"Dust problem", "0011"},
		{"Bad Quality material in construction", "0006"},
		{"Open Manhole", "0007"},
		{"Request garbage bin", "0008"},
		{"Unfinished Constructions", "0009"},
		{"Unhygienic public toilets", "0010"},
		{"Illegal public Advertisement", "0012"},
	}},
	{"Water-related Complaints", []problem{
		{"Sewer overflowing", "1001"},
		{"Water logging", "1002"},
		{"Need water pipeline", "1003"},
	}},
	{"Electricity-Related Complaints", []problem{
		{"No Streetlights (residential area)", "2001"},
		{"Frequent Power Cuts", "2002"},
	}},
	{"Hospital related", []problem{
		{"No beds in Hospitals", "3001"},
		{"Unhygienic conditions", "3002"},
	}},
	{"Education and school related", []problem{
		{"Broken School buildings", "4001"},
		{"Broken Desks", "4002"},
		{"Unhygienic toilets", "4004"},
	}},
	{"Happening for good", []problem{
		{"Cleanliness drives by NGOs", "-100"},
		{"Schools taking initiative", "-101"},
	}},
	{"Protests", []problem{
		{"Justice for Maumita and Women Safety", "P10001"},
	}},
	{"District Specific", []problem{
		{"Nal jal Yojna", "5001"},
	}},
}

// Lookup resolves problem-type codes to their names and categories
type Lookup struct {
	types  []models.ProblemType
	byCode map[string]models.ProblemType
}

// New flattens the category table into a lookup
func New() *Lookup {
	l := &Lookup{byCode: make(map[string]models.ProblemType)}
	for _, c := range catalogue {
		for _, p := range c.problems {
			pt := models.ProblemType{Code: p.code, Name: p.name, Category: c.name}
			l.types = append(l.types, pt)
			if _, seen := l.byCode[p.code]; !seen {
				l.byCode[p.code] = pt
			}
		}
	}
	return l
}

// ProblemTypes returns the flattened list in catalogue order
func (l *Lookup) ProblemTypes() []models.ProblemType {
	out := make([]models.ProblemType, len(l.types))
	copy(out, l.types)
	return out
}

// Find returns the problem type registered for code
func (l *Lookup) Find(code string) (models.ProblemType, bool) {
	pt, ok := l.byCode[code]
	return pt, ok
}

// Label returns the display name for code, or the code itself when unknown
func (l *Lookup) Label(code string) string {
	if pt, ok := l.byCode[code]; ok {
		return pt.Name
	}
	return code
}
