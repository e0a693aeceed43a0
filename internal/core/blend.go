package core

// Blend combines the filtered Codate rows with the normalized IVRV rows and
// sums ExtPrice per customer.
//
// Both inputs are projected to (CustID, ExtPrice) and concatenated with
// duplicates kept. The customer filter is applied to the combined rows, so
// the blended total always equals the in-set Codate total plus the in-set
// IVRV total. rows is the number of combined rows that passed the filter.
func Blend(codate, ivrv Dataset, customers CustomerSet) (summary Summary, rows int) {
	blended := blendRows(codate, ivrv, customers)
	return summarize(blended, ColCustID, ColExtPrice), len(blended)
}

// blendRows returns the concatenated, customer-filtered rows fed to Blend.
func blendRows(codate, ivrv Dataset, customers CustomerSet) []Record {
	a := codate.Project().Records
	b := ivrv.Project().Records

	combined := make([]Record, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)

	rows, _ := keep(combined, inCustomerSet(customers))
	return rows
}
