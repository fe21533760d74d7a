package resolve

import "strings"

// Marker is a timeline marker keyed by its frame position.
type Marker struct {
	Frame      int    `json:"frame"`
	Color      string `json:"color"`
	Name       string `json:"name"`
	Note       string `json:"note"`
	Duration   int    `json:"duration"`
	CustomData string `json:"custom_data,omitempty"`
}

// RenderJob is a flattened view of a host render queue entry.
type RenderJob struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	PresetName        string `json:"preset_name"`
	TargetDir         string `json:"target_dir"`
	CompletionPercent int    `json:"completion_percent"`
	TimeRemainingSec  int    `json:"time_remaining_sec"`
}

// RenderSettings is the subset of render configuration the CLI sets before
// queueing a job.
type RenderSettings struct {
	Format        string `json:"format"`
	Codec         string `json:"codec"`
	TargetDir     string `json:"target_dir"`
	CustomName    string `json:"custom_name,omitempty"`
	ExportVideo   bool   `json:"export_video"`
	ExportAudio   bool   `json:"export_audio"`
	MarkIn        int    `json:"mark_in,omitempty"`
	MarkOut       int    `json:"mark_out,omitempty"`
	SelectedColor string `json:"selected_color,omitempty"`
}

// GradeMode selects how a grade-exchange template replaces the current node
// graph when applied.
type GradeMode int

const (
	// GradeModeNoKeyframes applies the template grade without keyframes.
	GradeModeNoKeyframes GradeMode = iota
	// GradeModeSourceTimecode aligns keyframes to source timecode.
	GradeModeSourceTimecode
	// GradeModeStartFrames aligns keyframes to start frames.
	GradeModeStartFrames
)

// Render job status values reported by the host.
const (
	JobStatusReady     = "Ready"
	JobStatusRendering = "Rendering"
	JobStatusComplete  = "Complete"
	JobStatusFailed    = "Failed"
	JobStatusCancelled = "Cancelled"
)

// ClipColors enumerates the clip color tags the host accepts.
var ClipColors = []string{
	"Orange", "Apricot", "Yellow", "Lime", "Olive",
	"Green", "Teal", "Navy", "Blue", "Purple",
	"Violet", "Pink", "Tan", "Beige", "Brown",
	"Chocolate",
}

// MarkerColors enumerates the marker colors the host accepts.
var MarkerColors = []string{
	"Blue", "Cyan", "Green", "Yellow", "Red", "Pink",
	"Purple", "Fuchsia", "Rose", "Lavender", "Sky",
	"Mint", "Lemon", "Sand", "Cocoa", "Cream",
}

// CanonicalClipColor maps a case-insensitive color name onto the host's
// spelling. The second return reports whether the color is known.
func CanonicalClipColor(name string) (string, bool) {
	return canonical(ClipColors, name)
}

// CanonicalMarkerColor maps a case-insensitive marker color onto the host's
// spelling.
func CanonicalMarkerColor(name string) (string, bool) {
	return canonical(MarkerColors, name)
}

func canonical(known []string, name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, c := range known {
		if strings.EqualFold(c, trimmed) {
			return c, true
		}
	}
	return "", false
}
