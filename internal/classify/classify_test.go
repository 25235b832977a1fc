package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

func TestClassify_ImportMatch(t *testing.T) {
	rec := types.Record{
		Path:    "app.py",
		Content: "import tkinter as tk\n\nroot = tk.Tk()\n",
	}
	assert.Equal(t, []string{"GUI"}, Classify(rec))
}

func TestClassify_PathFallback(t *testing.T) {
	// No category import appears in the content, so the path keywords decide.
	rec := types.Record{
		Path:    "widgets/dialog.py",
		Content: "pass\n",
	}
	assert.Equal(t, []string{"GUI"}, Classify(rec))
}

func TestClassify_ImportBeatsPath(t *testing.T) {
	// A content hit for one category does not suppress path fallback for
	// another: each category is decided independently.
	rec := types.Record{
		Path:    "server/run.py",
		Content: "import pandas as pd\n",
	}
	labels := Classify(rec)
	assert.Contains(t, labels, "Data Processing")
	assert.Contains(t, labels, "Web/API")
}

func TestClassify_MultipleSorted(t *testing.T) {
	rec := types.Record{
		Path:    "app.py",
		Content: "import tkinter\nimport pandas\nimport pytest\n",
	}
	labels := Classify(rec)
	assert.Equal(t, []string{"Data Processing", "GUI", "Testing"}, labels)
}

func TestClassify_NoMatch(t *testing.T) {
	rec := types.Record{
		Path:    "app.py",
		Content: "value = 1\n",
	}
	assert.Empty(t, Classify(rec))
}

func TestClassify_Deterministic(t *testing.T) {
	rec := types.Record{
		Path:    "pipeline/train.py",
		Content: "import torch\nimport numpy as np\n",
	}
	first := Classify(rec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(rec))
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	rec := types.Record{
		Path:    "app.py",
		Content: "IMPORT TKINTER\n",
	}
	assert.Equal(t, []string{"GUI"}, Classify(rec))
}

func TestLabels_DefinitionOrder(t *testing.T) {
	labels := Labels()
	assert.Len(t, labels, len(Categories))
	assert.Equal(t, "GUI", labels[0])
	assert.Equal(t, "Automation/Scripting", labels[len(labels)-1])
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "-", DisplayLabel(nil))
	assert.Equal(t, "GUI", DisplayLabel([]string{"GUI"}))
	assert.Equal(t, "AI/ML, GUI", DisplayLabel([]string{"AI/ML", "GUI"}))
	assert.Equal(t, "AI/ML, GUI +2", DisplayLabel([]string{"AI/ML", "GUI", "Testing", "Web/API"}))
}
