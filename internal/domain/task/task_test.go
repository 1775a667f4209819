package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/harvester/internal/domain"
)

func TestProductFailureTaskValue(t *testing.T) {
	in := &ProductFailureTask{
		RunID:        "run-1",
		ProductID:    "CEM3546T",
		CategoryPath: "Motors / AC",
		Attempts:     3,
		Error:        "HTTP error: 503",
		FailureStage: StageFetch,
	}

	value, err := in.TaskValue()
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"run-1","product_id":"CEM3546T","category_path":"Motors / AC","attempts":3,"error":"HTTP error: 503","failure_stage":"fetch"}`, string(value))

	out, err := decode[*ProductFailureTask](value)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "ProductFailureTask", out.TaskType())
}

func TestAssetFailureTaskType(t *testing.T) {
	tk := &AssetFailureTask{ProductID: "CEM3546T", Kind: domain.AssetKindManual}
	assert.Equal(t, "AssetFailureTask", tk.TaskType())

	value, err := tk.TaskValue()
	require.NoError(t, err)
	assert.Contains(t, string(value), `"kind":"manual"`)
}
