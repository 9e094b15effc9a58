package payroll

import (
	"math"
)

// Statutory deduction rates for the simplified Nigerian PAYE model.
// These constants are the single source for both the payroll run and the
// accounting payroll-expense posting.
const (
	PensionRate = 0.08  // employee pension contribution
	NHFRate     = 0.025 // National Housing Fund
	CRAFloor    = 200000
	CRABaseRate = 0.01 // 1% of gross, floored at CRAFloor
	CRAGrossCut = 0.20 // plus 20% of gross
)

// taxBand is one progressive PAYE band: the first Width of taxable
// income above the previous bands is taxed at Rate. The final band has
// Width 0, meaning "the rest".
type taxBand struct {
	Width float64
	Rate  float64
}

var payeBands = []taxBand{
	{300000, 0.07},
	{300000, 0.11},
	{500000, 0.15},
	{500000, 0.19},
	{1600000, 0.21},
	{0, 0.24},
}

// Breakdown is the deterministic deduction breakdown for one gross
// annual salary.
type Breakdown struct {
	Gross         float64 `json:"gross"`
	Pension       float64 `json:"pension"`
	NHF           float64 `json:"nhf"`
	CRA           float64 `json:"cra"`
	TaxableIncome float64 `json:"taxable_income"`
	PAYE          float64 `json:"paye"`
	NetPay        float64 `json:"net_pay"`
}

// Compute calculates the full deduction breakdown for a gross annual
// salary. Pure function: no side effects, same input always yields the
// same output. All amounts are rounded to 2 decimal places.
func Compute(gross float64) Breakdown {
	if gross <= 0 {
		return Breakdown{}
	}

	pension := round2(gross * PensionRate)
	nhf := round2(gross * NHFRate)
	cra := round2(math.Max(CRAFloor, gross*CRABaseRate) + gross*CRAGrossCut)

	taxable := gross - pension - nhf - cra
	if taxable < 0 {
		taxable = 0
	}
	taxable = round2(taxable)

	paye := round2(computePAYE(taxable))
	net := round2(gross - pension - nhf - paye)

	return Breakdown{
		Gross:         round2(gross),
		Pension:       pension,
		NHF:           nhf,
		CRA:           cra,
		TaxableIncome: taxable,
		PAYE:          paye,
		NetPay:        net,
	}
}

// computePAYE applies the progressive bands to taxable income.
func computePAYE(taxable float64) float64 {
	remaining := taxable
	var tax float64
	for _, band := range payeBands {
		if remaining <= 0 {
			break
		}
		slice := remaining
		if band.Width > 0 && slice > band.Width {
			slice = band.Width
		}
		tax += slice * band.Rate
		remaining -= slice
	}
	return tax
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
