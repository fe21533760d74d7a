package resolve

import (
	"context"

	"gradectl/internal/cdl"
)

// Host is the entry point to a running host application instance. Project
// manager operations are flattened onto Host because every script uses them
// as a unit.
type Host interface {
	// Version returns the host application version string.
	Version(ctx context.Context) (string, error)
	// CurrentProject returns the project open in the host.
	CurrentProject(ctx context.Context) (Project, error)
	// LoadProject opens a named project from the current database.
	LoadProject(ctx context.Context, name string) (Project, error)
	// CreateProject creates and opens a new project.
	CreateProject(ctx context.Context, name string) (Project, error)
	// ProjectNames lists projects in the current database.
	ProjectNames(ctx context.Context) ([]string, error)
	// ExportProject writes the named project to a .drp archive at path.
	ExportProject(ctx context.Context, name, path string) error
	// ImportProject loads a .drp archive into the current database.
	ImportProject(ctx context.Context, path string) error
	// Close releases the connection to the host.
	Close() error
}

// Project mirrors the host's project object.
type Project interface {
	Name(ctx context.Context) (string, error)
	Setting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	CurrentTimeline(ctx context.Context) (Timeline, error)
	TimelineCount(ctx context.Context) (int, error)
	TimelineByIndex(ctx context.Context, index int) (Timeline, error)
	SetCurrentTimeline(ctx context.Context, timeline Timeline) error

	MediaPool(ctx context.Context) (MediaPool, error)

	// RefreshLUTList asks the host to rescan its LUT directories.
	RefreshLUTList(ctx context.Context) error

	RenderJobs(ctx context.Context) ([]RenderJob, error)
	SetRenderSettings(ctx context.Context, settings RenderSettings) error
	AddRenderJob(ctx context.Context) (string, error)
	DeleteRenderJob(ctx context.Context, jobID string) error
	StartRendering(ctx context.Context, jobIDs ...string) error
	StopRendering(ctx context.Context) error
	IsRenderingInProgress(ctx context.Context) (bool, error)
}

// Timeline mirrors the host's timeline object.
type Timeline interface {
	Name(ctx context.Context) (string, error)
	FrameRate(ctx context.Context) (float64, error)
	StartFrame(ctx context.Context) (int, error)
	EndFrame(ctx context.Context) (int, error)
	VideoTrackCount(ctx context.Context) (int, error)
	ItemsInVideoTrack(ctx context.Context, track int) ([]Item, error)

	Markers(ctx context.Context) ([]Marker, error)
	AddMarker(ctx context.Context, marker Marker) error
	DeleteMarkerAtFrame(ctx context.Context, frame int) error
	DeleteMarkersByColor(ctx context.Context, color string) error
}

// Item mirrors a timeline item and its node graph.
type Item interface {
	Name(ctx context.Context) (string, error)
	Start(ctx context.Context) (int, error)
	End(ctx context.Context) (int, error)
	Duration(ctx context.Context) (int, error)

	ClipColor(ctx context.Context) (string, error)
	SetClipColor(ctx context.Context, color string) error
	ClearClipColor(ctx context.Context) error

	NodeCount(ctx context.Context) (int, error)
	NodeLabel(ctx context.Context, node int) (string, error)
	LUT(ctx context.Context, node int) (string, error)
	SetLUT(ctx context.Context, node int, path string) error
	NodeColorData(ctx context.Context, node int) (cdl.ColorCorrection, error)
	SetNodeColorData(ctx context.Context, node int, correction cdl.ColorCorrection) error

	// ApplyGradeFromDRX loads a grade-exchange template exported from the
	// host gallery. This is the supported way to change node structure,
	// since nodes cannot be added through the scripting surface.
	ApplyGradeFromDRX(ctx context.Context, path string, mode GradeMode) error
}

// MediaPool mirrors the host's media pool.
type MediaPool interface {
	RootFolder(ctx context.Context) (Folder, error)
	AddSubFolder(ctx context.Context, parent Folder, name string) (Folder, error)
	MoveClips(ctx context.Context, clips []Clip, target Folder) error
	DeleteFolders(ctx context.Context, folders []Folder) error
	ImportMedia(ctx context.Context, paths []string) ([]Clip, error)
}

// Folder mirrors a media pool bin.
type Folder interface {
	Name(ctx context.Context) (string, error)
	Clips(ctx context.Context) ([]Clip, error)
	SubFolders(ctx context.Context) ([]Folder, error)
}

// Clip mirrors a media pool clip.
type Clip interface {
	Name(ctx context.Context) (string, error)
	SetName(ctx context.Context, name string) error
	ClipColor(ctx context.Context) (string, error)
	SetClipColor(ctx context.Context, color string) error
	Property(ctx context.Context, key string) (string, error)
	Properties(ctx context.Context) (map[string]string, error)
}
