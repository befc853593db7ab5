package models

// ProblemType is one entry of the flattened problem-type lookup table
type ProblemType struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
