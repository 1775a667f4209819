package task

import "catalog/harvester/internal/domain"

type AssetFailureTask struct {
	RunID     string           `json:"run_id"`
	ProductID string           `json:"product_id"`
	Kind      domain.AssetKind `json:"kind"`     // image, manual or cad
	URL       string           `json:"url"`      // Requested URL
	Attempts  int              `json:"attempts"` // Requests issued before giving up
	Error     string           `json:"error"`
}

func (t *AssetFailureTask) TaskType() string {
	return "AssetFailureTask"
}

func (t *AssetFailureTask) TaskValue() ([]byte, error) {
	return encode(t)
}
