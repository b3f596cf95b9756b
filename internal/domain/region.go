package domain

// Region is a named administrative unit used as a query scope. Cities carry
// backend ids; district ids are synthesized ordinally because the directory
// endpoint returns names only.
type Region struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
