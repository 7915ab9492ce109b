package badge

// Badge is the content of one badge: label on the dark left half,
// value on the colored right half.
type Badge struct {
	Label string
	Value string
	Color string // right-half fill, e.g. "#4c1"
}

// Engine renders badges with one font's metrics.
type Engine struct {
	metrics *FontMetrics
}

// New returns an engine rendering with the given metrics.
func New(metrics *FontMetrics) *Engine {
	return &Engine{metrics: metrics}
}

// statusColors maps audit status words to shields hex colors.
var statusColors = map[string]string{
	"passing": "#4c1", "passed": "#4c1", "success": "#4c1",
	"issues": "#dfb317", "warning": "#dfb317",
	"failing": "#e05d44", "critical": "#e05d44", "failed": "#e05d44",
}

// StatusColor resolves a status keyword to its badge color. Unknown
// words get the passing green.
func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "#4c1"
}
