// Package filters models the complaint filter form: the staged values bound to
// inputs and the applied values sent with the complaint query.
package filters

// Recognized filter keys, in the order the filter form lays them out
const (
	Query                = "query"
	Status               = "status"
	Plan                 = "plan"
	IsAssigned           = "isAssigned"
	City                 = "city"
	MunicipalCorporation = "municipalCorporation"
	DateFrom             = "dateFrom"
	DateTo               = "dateTo"
	StrCode              = "strCode"
)

// Keys lists every recognized filter key
var Keys = []string{
	Query,
	Status,
	Plan,
	IsAssigned,
	City,
	MunicipalCorporation,
	DateFrom,
	DateTo,
	StrCode,
}

var labels = map[string]string{
	Query:                "Search",
	Status:               "Status",
	Plan:                 "Plan",
	IsAssigned:           "Assignment",
	City:                 "City",
	MunicipalCorporation: "Municipal Corporation",
	DateFrom:             "From",
	DateTo:               "To",
	StrCode:              "Problem Type",
}

// Set maps filter keys to their scalar values. A missing key and an empty
// value both mean "no filter".
type Set map[string]string

// IsKnown reports whether key is one of the recognized filter keys
func IsKnown(key string) bool {
	_, ok := labels[key]
	return ok
}

// Label returns the human readable name of a filter key
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

// Compact returns a new set holding only recognized keys with non-empty values
func (s Set) Compact() Set {
	out := Set{}
	for _, k := range Keys {
		if v, ok := s[k]; ok && v != "" {
			out[k] = v
		}
	}
	return out
}

// Clone returns a copy of s, nil stays nil
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Blank returns a set with every recognized key present and empty, the shape
// of a freshly reset filter form
func Blank() Set {
	out := make(Set, len(Keys))
	for _, k := range Keys {
		out[k] = ""
	}
	return out
}

// Payload copies the non-empty recognized keys into a request payload
func (s Set) Payload() map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range s.Compact() {
		out[k] = v
	}
	return out
}
