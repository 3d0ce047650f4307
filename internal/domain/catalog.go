package domain

// ServiceSummary is display-only enrichment from the catalog. It may be stale
// and never gates a transition.
type ServiceSummary struct {
	ID           int64
	Title        string
	ProviderName string
	Game         string
	Price        string
}

type TransactionDetails struct {
	Transaction Transaction
	Service     *ServiceSummary
}
