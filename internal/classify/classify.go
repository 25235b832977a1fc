package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// Category defines one code type: a label plus the lowercase keywords that
// identify it in record content (import names) and in file paths.
type Category struct {
	Label        string
	Imports      []string
	PathKeywords []string
}

// Categories is the fixed set of detectable code types.
var Categories = []Category{
	{
		Label:        "GUI",
		Imports:      []string{"tkinter", "pyqt", "pyside", "wx", "kivy", "pygame", "gtk", "ttk", "customtkinter"},
		PathKeywords: []string{"gui", "ui", "interface", "window", "dialog", "widget"},
	},
	{
		Label: "AI/ML",
		Imports: []string{"tensorflow", "keras", "torch", "pytorch", "sklearn", "scikit-learn", "xgboost",
			"lightgbm", "catboost", "transformers", "huggingface", "openai", "langchain"},
		PathKeywords: []string{"ai", "ml", "machine_learning", "deep_learning", "neural", "model", "training"},
	},
	{
		Label: "Data Processing",
		Imports: []string{"pandas", "numpy", "scipy", "dask", "polars", "vaex", "csv", "json", "xml",
			"openpyxl", "xlrd", "pyarrow", "parquet"},
		PathKeywords: []string{"data", "etl", "pipeline", "processing", "transform", "clean"},
	},
	{
		Label: "Image Processing",
		Imports: []string{"pil", "pillow", "cv2", "opencv", "skimage", "imageio", "mahotas",
			"simpleitk", "scikit-image"},
		PathKeywords: []string{"image", "img", "vision", "photo", "picture", "pixel"},
	},
	{
		Label: "Web/API",
		Imports: []string{"flask", "django", "fastapi", "requests", "aiohttp", "httpx", "bottle",
			"tornado", "starlette", "uvicorn", "gunicorn"},
		PathKeywords: []string{"web", "api", "server", "http", "rest", "endpoint", "route"},
	},
	{
		Label: "Database",
		Imports: []string{"sqlite3", "sqlalchemy", "pymongo", "redis", "psycopg2", "mysql",
			"pymysql", "mongoengine", "peewee", "tortoise"},
		PathKeywords: []string{"database", "db", "sql", "mongo", "storage", "repository"},
	},
	{
		Label:        "Algorithm",
		Imports:      []string{"collections", "heapq", "bisect", "itertools", "functools", "operator"},
		PathKeywords: []string{"algorithm", "algo", "sort", "search", "graph", "tree", "dp", "dynamic"},
	},
	{
		Label:        "Testing",
		Imports:      []string{"pytest", "unittest", "nose", "mock", "hypothesis", "coverage", "tox"},
		PathKeywords: []string{"test", "spec", "unittest", "pytest", "mock"},
	},
	{
		Label:        "Networking",
		Imports:      []string{"socket", "asyncio", "twisted", "paramiko", "fabric", "netmiko", "scapy"},
		PathKeywords: []string{"network", "socket", "tcp", "udp", "protocol", "packet"},
	},
	{
		Label: "Automation/Scripting",
		Imports: []string{"subprocess", "shutil", "glob", "pathlib", "argparse", "click", "typer",
			"schedule", "watchdog", "pyautogui", "selenium"},
		PathKeywords: []string{"script", "automation", "bot", "task", "cron", "job"},
	},
}

// Labels returns every category label in definition order.
func Labels() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = c.Label
	}
	return out
}

// Classify detects the code type labels for a record. The lowercased content
// is substring-matched against each category's import keywords; only when no
// import keyword hits is the lowercased path matched against the category's
// path keywords. Pure and deterministic: the result is sorted and depends
// only on the record.
//
// Callers must not depend on which keyword matched, only on the label set.
func Classify(rec types.Record) []string {
	content := strings.ToLower(rec.Content)
	path := strings.ToLower(rec.Path)

	var labels []string
	for _, cat := range Categories {
		matched := false
		for _, imp := range cat.Imports {
			if strings.Contains(content, imp) {
				matched = true
				break
			}
		}
		if !matched {
			for _, kw := range cat.PathKeywords {
				if strings.Contains(path, kw) {
					matched = true
					break
				}
			}
		}
		if matched {
			labels = append(labels, cat.Label)
		}
	}

	sort.Strings(labels)
	return labels
}

// DisplayLabel renders a label set in compact form for the record list:
// the first two labels, then "+N" for any remainder. Empty sets render "-".
func DisplayLabel(labels []string) string {
	if len(labels) == 0 {
		return "-"
	}
	shown := labels
	if len(shown) > 2 {
		shown = shown[:2]
	}
	out := strings.Join(shown, ", ")
	if rest := len(labels) - 2; rest > 0 {
		out += fmt.Sprintf(" +%d", rest)
	}
	return out
}
