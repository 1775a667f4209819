package task

const (
	StageFetch    = "fetch"    // Detail page retries exhausted
	StageAssemble = "assemble" // Record could not be built from the page
	StagePersist  = "persist"  // Record could not be saved
)

type ProductFailureTask struct {
	RunID        string `json:"run_id"`
	ProductID    string `json:"product_id"`
	CategoryPath string `json:"category_path"`
	Attempts     int    `json:"attempts"`      // Requests issued before giving up
	Error        string `json:"error"`         // Error message from the last failure
	FailureStage string `json:"failure_stage"` // fetch, assemble or persist
}

func (t *ProductFailureTask) TaskType() string {
	return "ProductFailureTask"
}

func (t *ProductFailureTask) TaskValue() ([]byte, error) {
	return encode(t)
}
