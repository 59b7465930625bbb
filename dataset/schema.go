package dataset

// Column names of the Boston housing table.
const (
	CRIM    = "CRIM"
	ZN      = "ZN"
	INDUS   = "INDUS"
	CHAS    = "CHAS"
	NOX     = "NOX"
	RM      = "RM"
	AGE     = "AGE"
	DIS     = "DIS"
	RAD     = "RAD"
	TAX     = "TAX"
	PTRATIO = "PTRATIO"
	B       = "B"
	LSTAT   = "LSTAT"
	PRICE   = "PRICE"
)

// Schema names the numeric columns expected after the leading row-index
// column, and which of them is the target.
type Schema struct {
	Columns []string
	Target  string
}

// BostonSchema is the 14-column layout of the reference dataset. PRICE is
// the median home value in units of $1000.
func BostonSchema() Schema {
	return Schema{
		Columns: []string{CRIM, ZN, INDUS, CHAS, NOX, RM, AGE, DIS, RAD, TAX, PTRATIO, B, LSTAT, PRICE},
		Target:  PRICE,
	}
}

// Has reports whether name is one of the schema columns.
func (s Schema) Has(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Features returns the schema columns without the target, in order.
func (s Schema) Features() []string {
	out := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c != s.Target {
			out = append(out, c)
		}
	}
	return out
}
