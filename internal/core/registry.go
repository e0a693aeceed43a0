package core

import "strings"

// DatasetKind identifies one of the uploaded sources.
type DatasetKind string

const (
	KindCodate    DatasetKind = "codate"
	KindIVRV      DatasetKind = "ivrv"
	KindARInvoice DatasetKind = "arinvoice"
)

// FieldSpec describes one expected column.
type FieldSpec struct {
	Name       string    // Column header name (must match exactly)
	Alternates []string  // Other accepted header names for the same column
	Type       FieldType // Expected data type
	Required   bool      // Column must exist in the header
}

// Names returns the primary name followed by any alternates.
func (f FieldSpec) Names() []string {
	return append([]string{f.Name}, f.Alternates...)
}

// DisplayName renders the field for error messages, e.g. "Ext Price or ExtPrice".
func (f FieldSpec) DisplayName() string {
	return strings.Join(f.Names(), " or ")
}

// Resolve returns the first of the field's names present in idx.
func (f FieldSpec) Resolve(idx HeaderIndex) (string, bool) {
	for _, name := range f.Names() {
		if _, ok := idx[name]; ok {
			return name, true
		}
	}
	return "", false
}

// DatasetSpec contains everything needed to validate one uploaded source.
type DatasetSpec struct {
	Kind       DatasetKind
	Label      string // Display name: "AR Invoice/Ship"
	FieldSpecs []FieldSpec
}

var registry = map[DatasetKind]DatasetSpec{
	KindCodate: {
		Kind:  KindCodate,
		Label: "Codate",
		FieldSpecs: []FieldSpec{
			{Name: ColCustID, Type: FieldText, Required: true},
			{Name: ColPromShip, Type: FieldDate, Required: true},
			{Name: ColLS, Type: FieldInteger, Required: true},
			{Name: ColExtPriceAlt, Type: FieldNumeric, Required: true},
		},
	},
	KindIVRV: {
		Kind:  KindIVRV,
		Label: "IVRV",
		FieldSpecs: []FieldSpec{
			{Name: ColCustID, Type: FieldText, Required: true},
			{Name: ColExtPriceAlt, Alternates: []string{ColExtPrice}, Type: FieldNumeric, Required: true},
		},
	},
	KindARInvoice: {
		Kind:  KindARInvoice,
		Label: "AR Invoice/Ship",
		FieldSpecs: []FieldSpec{
			{Name: ColCustomerID, Type: FieldText, Required: true},
			{Name: ColIvcDate, Type: FieldDate, Required: true},
			{Name: ColExtPrice, Type: FieldNumeric, Required: true},
		},
	},
}

// kindOrder is the processing and display order.
var kindOrder = []DatasetKind{KindCodate, KindIVRV, KindARInvoice}

// Spec returns the dataset spec for a kind.
// Returns false if the kind is unknown.
func Spec(kind DatasetKind) (DatasetSpec, bool) {
	spec, ok := registry[kind]
	return spec, ok
}

// Kinds returns every known dataset kind in processing order.
func Kinds() []DatasetKind {
	out := make([]DatasetKind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// Label returns the display name for a kind, or the kind itself if unknown.
func (k DatasetKind) Label() string {
	if spec, ok := registry[k]; ok {
		return spec.Label
	}
	return string(k)
}
