package model

// Certificate — данные справки о стоимости выполненных работ с
// нарастающим итогом (аналог КС-3): шапка акта, блоки сторон и
// построчные количества на каждом накопительном срезе.
type Certificate struct {
	Act                 CompletionAct
	CustomerName        string
	ContractorName      string
	ContractNumber      string
	ObjectName          string
	Currency            string
	TotalAmountYTD      float64
	PrevPeriodAmount    float64
	CurrentPeriodAmount float64
	Rows                []CertificateRow
}

type CertificateRow struct {
	Position        int
	WorkCode        string
	WorkName        string
	Unit            string
	UnitPrice       float64
	QuantityPrev    float64
	QuantityCurrent float64
	QuantityYTD     float64
	AmountPrev      float64
	AmountCurrent   float64
	AmountYTD       float64
}
