package core

// IVRVResult is the output of TransformIVRV: the missed-invoice rows
// normalized to exactly (CustID, ExtPrice).
type IVRVResult struct {
	Normalized Dataset
	// SourcePriceColumn is the price header found in the upload.
	SourcePriceColumn string
	Stats             Stats
}

// TransformIVRV normalizes the IVRV export.
//
// Whichever of "Ext Price" or "ExtPrice" is present becomes ExtPrice ("Ext Price"
// wins if both are), the table is projected to CustID and ExtPrice, and CustID
// is kept as text so numeric-looking IDs are not reinterpreted. No rows are
// dropped and no aggregate is built; blending does that.
func TransformIVRV(t *Table, rules Rules, rep Reporter) (*IVRVResult, error) {
	rep = orNop(rep)

	if err := validate(t, KindIVRV, rep); err != nil {
		return nil, err
	}

	rep.Info("Starting IVRV data processing...")

	spec, _ := Spec(KindIVRV)
	idx := t.Index()
	priceCol, _ := spec.FieldSpecs[1].Resolve(idx)

	stats := newStats(KindIVRV, t.Len())
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		id := getCell(row, idx, ColCustID)
		raw := getCell(row, idx, priceCol)
		price, ok := ParseDecimal(raw)
		records = append(records, Record{
			CustomerID: id,
			Price:      price,
			PriceValid: ok,
			Cells:      []string{id, raw},
		})
	}

	stats.InvalidPrices = countInvalidPrices(records, 1)
	stats.OutputRows = len(records)
	if priceCol != ColExtPrice {
		rep.Info("IVRV column 'Ext Price' renamed to 'ExtPrice'.")
	}

	rep.Success("IVRV data processing complete.")
	return &IVRVResult{
		Normalized: Dataset{
			Columns:        []string{ColCustID, ColExtPrice},
			Records:        records,
			CustomerColumn: ColCustID,
			PriceColumn:    ColExtPrice,
		},
		SourcePriceColumn: priceCol,
		Stats:             stats,
	}, nil
}
