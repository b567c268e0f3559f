package model

// FailedFund describes a provider record that could not be stored.
type FailedFund struct {
	SchemeName string            `json:"scheme_name"`
	Errors     map[string]string `json:"errors"`
}

// IngestionResult partitions one ingestion run into stored and rejected schemes.
// Every open-ended record from the provider appears in exactly one of the two lists.
type IngestionResult struct {
	Created []string     `json:"created_funds"`
	Failed  []FailedFund `json:"failed_funds"`
}

// Total returns the number of records that were considered.
func (r IngestionResult) Total() int {
	return len(r.Created) + len(r.Failed)
}
