package models

// FeeRate maps a card brand, transaction type and installment label to the
// processor's fee fraction (0–1). Lookup is exact; there is no default rate.
type FeeRate struct {
	Brand            string  `db:"brand" json:"brand"`
	TransactionType  string  `db:"transaction_type" json:"transaction_type"`
	InstallmentLabel string  `db:"installment_label" json:"installment_label"`
	FeeFraction      float64 `db:"fee_fraction" json:"fee_fraction"`
}
