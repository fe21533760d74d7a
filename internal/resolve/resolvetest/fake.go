package resolvetest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gradectl/internal/cdl"
	"gradectl/internal/resolve"
)

// Host is an in-memory resolve.Host. Fields are exported so tests can seed
// and inspect state directly.
type Host struct {
	VersionString string
	Projects      map[string]*Project
	Current       *Project
	Imported      []string
	Closed        bool
}

// NewHost returns a host with a single empty current project.
func NewHost() *Host {
	project := NewProject("Untitled Project")
	return &Host{
		VersionString: "20.0.0",
		Projects:      map[string]*Project{project.ProjName: project},
		Current:       project,
	}
}

func (h *Host) Version(ctx context.Context) (string, error) {
	return h.VersionString, nil
}

func (h *Host) CurrentProject(ctx context.Context) (resolve.Project, error) {
	if h.Current == nil {
		return nil, resolve.ErrNoProject
	}
	return h.Current, nil
}

func (h *Host) LoadProject(ctx context.Context, name string) (resolve.Project, error) {
	project, ok := h.Projects[name]
	if !ok {
		return nil, resolve.Refused("load project " + name)
	}
	h.Current = project
	return project, nil
}

func (h *Host) CreateProject(ctx context.Context, name string) (resolve.Project, error) {
	if _, exists := h.Projects[name]; exists {
		return nil, resolve.Refused("create project " + name)
	}
	project := NewProject(name)
	if h.Projects == nil {
		h.Projects = map[string]*Project{}
	}
	h.Projects[name] = project
	h.Current = project
	return project, nil
}

func (h *Host) ProjectNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(h.Projects))
	for name := range h.Projects {
		names = append(names, name)
	}
	return names, nil
}

func (h *Host) ExportProject(ctx context.Context, name, path string) error {
	if _, ok := h.Projects[name]; !ok {
		return resolve.Refused("export project " + name)
	}
	return os.WriteFile(path, []byte("drp:"+name), 0o644)
}

func (h *Host) ImportProject(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return resolve.Refused("import project " + path)
	}
	h.Imported = append(h.Imported, path)
	return nil
}

func (h *Host) Close() error {
	h.Closed = true
	return nil
}

// Project is an in-memory resolve.Project.
type Project struct {
	ProjName        string
	Settings        map[string]string
	RefuseSettings  bool
	Timelines       []*Timeline
	CurrentIndex    int // -1 when no timeline is open
	Pool            *MediaPool
	Jobs            []resolve.RenderJob
	LastSettings    resolve.RenderSettings
	Rendering       bool
	LUTRefreshes    int
	RefuseLUTScan   bool
	PollHook        func() // invoked on each IsRenderingInProgress call
	nextJob         int
	StartedJobIDs   []string
	DeletedJobIDs   []string
	StoppedRenders  int
}

// NewProject returns an empty project with no timelines.
func NewProject(name string) *Project {
	return &Project{
		ProjName:     name,
		Settings:     map[string]string{},
		CurrentIndex: -1,
		Pool:         NewMediaPool(),
	}
}

// AddTimeline appends a timeline and makes it current.
func (p *Project) AddTimeline(t *Timeline) *Timeline {
	p.Timelines = append(p.Timelines, t)
	p.CurrentIndex = len(p.Timelines) - 1
	return t
}

func (p *Project) Name(ctx context.Context) (string, error) { return p.ProjName, nil }

func (p *Project) Setting(ctx context.Context, key string) (string, error) {
	return p.Settings[key], nil
}

func (p *Project) SetSetting(ctx context.Context, key, value string) error {
	if p.RefuseSettings {
		return resolve.Refused("set setting " + key)
	}
	p.Settings[key] = value
	return nil
}

func (p *Project) CurrentTimeline(ctx context.Context) (resolve.Timeline, error) {
	if p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Timelines) {
		return nil, resolve.ErrNoTimeline
	}
	return p.Timelines[p.CurrentIndex], nil
}

func (p *Project) TimelineCount(ctx context.Context) (int, error) {
	return len(p.Timelines), nil
}

func (p *Project) TimelineByIndex(ctx context.Context, index int) (resolve.Timeline, error) {
	if index < 1 || index > len(p.Timelines) {
		return nil, fmt.Errorf("timeline index %d out of range", index)
	}
	return p.Timelines[index-1], nil
}

func (p *Project) SetCurrentTimeline(ctx context.Context, timeline resolve.Timeline) error {
	for i, t := range p.Timelines {
		if t == timeline {
			p.CurrentIndex = i
			return nil
		}
	}
	return resolve.Refused("set current timeline")
}

func (p *Project) MediaPool(ctx context.Context) (resolve.MediaPool, error) {
	return p.Pool, nil
}

func (p *Project) RefreshLUTList(ctx context.Context) error {
	if p.RefuseLUTScan {
		return resolve.Refused("refresh lut list")
	}
	p.LUTRefreshes++
	return nil
}

func (p *Project) RenderJobs(ctx context.Context) ([]resolve.RenderJob, error) {
	jobs := make([]resolve.RenderJob, len(p.Jobs))
	copy(jobs, p.Jobs)
	return jobs, nil
}

func (p *Project) SetRenderSettings(ctx context.Context, settings resolve.RenderSettings) error {
	p.LastSettings = settings
	return nil
}

func (p *Project) AddRenderJob(ctx context.Context) (string, error) {
	p.nextJob++
	id := fmt.Sprintf("job-%d", p.nextJob)
	p.Jobs = append(p.Jobs, resolve.RenderJob{
		ID:         id,
		Status:     resolve.JobStatusReady,
		TargetDir:  p.LastSettings.TargetDir,
		PresetName: p.LastSettings.Codec,
	})
	return id, nil
}

func (p *Project) DeleteRenderJob(ctx context.Context, jobID string) error {
	for i, job := range p.Jobs {
		if job.ID == jobID {
			p.Jobs = append(p.Jobs[:i], p.Jobs[i+1:]...)
			p.DeletedJobIDs = append(p.DeletedJobIDs, jobID)
			return nil
		}
	}
	return resolve.Refused("delete render job " + jobID)
}

func (p *Project) StartRendering(ctx context.Context, jobIDs ...string) error {
	p.Rendering = true
	p.StartedJobIDs = append(p.StartedJobIDs, jobIDs...)
	for i := range p.Jobs {
		if len(jobIDs) == 0 || containsString(jobIDs, p.Jobs[i].ID) {
			p.Jobs[i].Status = resolve.JobStatusRendering
		}
	}
	return nil
}

func (p *Project) StopRendering(ctx context.Context) error {
	p.Rendering = false
	p.StoppedRenders++
	return nil
}

func (p *Project) IsRenderingInProgress(ctx context.Context) (bool, error) {
	if p.PollHook != nil {
		p.PollHook()
	}
	return p.Rendering, nil
}

// Timeline is an in-memory resolve.Timeline. Tracks are 1-based externally.
type Timeline struct {
	TimelineName string
	FPS          float64
	StartF       int
	EndF         int
	Tracks       [][]*Item
	Marks        []resolve.Marker
}

// NewTimeline returns a timeline with the given number of empty video tracks.
func NewTimeline(name string, tracks int) *Timeline {
	return &Timeline{
		TimelineName: name,
		FPS:          24,
		Tracks:       make([][]*Item, tracks),
	}
}

// AddItem appends an item to the given 1-based track.
func (t *Timeline) AddItem(track int, item *Item) *Item {
	t.Tracks[track-1] = append(t.Tracks[track-1], item)
	return item
}

func (t *Timeline) Name(ctx context.Context) (string, error) { return t.TimelineName, nil }

func (t *Timeline) FrameRate(ctx context.Context) (float64, error) { return t.FPS, nil }

func (t *Timeline) StartFrame(ctx context.Context) (int, error) { return t.StartF, nil }

func (t *Timeline) EndFrame(ctx context.Context) (int, error) { return t.EndF, nil }

func (t *Timeline) VideoTrackCount(ctx context.Context) (int, error) {
	return len(t.Tracks), nil
}

func (t *Timeline) ItemsInVideoTrack(ctx context.Context, track int) ([]resolve.Item, error) {
	if track < 1 || track > len(t.Tracks) {
		return nil, fmt.Errorf("video track %d out of range", track)
	}
	items := make([]resolve.Item, len(t.Tracks[track-1]))
	for i, item := range t.Tracks[track-1] {
		items[i] = item
	}
	return items, nil
}

func (t *Timeline) Markers(ctx context.Context) ([]resolve.Marker, error) {
	markers := make([]resolve.Marker, len(t.Marks))
	copy(markers, t.Marks)
	return markers, nil
}

func (t *Timeline) AddMarker(ctx context.Context, marker resolve.Marker) error {
	for _, m := range t.Marks {
		if m.Frame == marker.Frame {
			return resolve.Refused(fmt.Sprintf("add marker at frame %d", marker.Frame))
		}
	}
	t.Marks = append(t.Marks, marker)
	return nil
}

func (t *Timeline) DeleteMarkerAtFrame(ctx context.Context, frame int) error {
	for i, m := range t.Marks {
		if m.Frame == frame {
			t.Marks = append(t.Marks[:i], t.Marks[i+1:]...)
			return nil
		}
	}
	return resolve.Refused(fmt.Sprintf("delete marker at frame %d", frame))
}

func (t *Timeline) DeleteMarkersByColor(ctx context.Context, color string) error {
	kept := t.Marks[:0]
	for _, m := range t.Marks {
		if !strings.EqualFold(m.Color, color) {
			kept = append(kept, m)
		}
	}
	t.Marks = kept
	return nil
}

// Node is one node in a fake item's graph.
type Node struct {
	Label   string
	LUTPath string
	Color   cdl.ColorCorrection
}

// Item is an in-memory resolve.Item.
type Item struct {
	ItemName       string
	Color          string
	StartF         int
	EndF           int
	Nodes          []*Node
	AppliedDRX     []string
	RefuseNodeOps  bool
	RefuseColoring bool
}

// NewItem returns an item with the given number of identity nodes.
func NewItem(name string, nodes int) *Item {
	item := &Item{ItemName: name}
	for i := 0; i < nodes; i++ {
		item.Nodes = append(item.Nodes, &Node{Color: cdl.Identity()})
	}
	return item
}

func (i *Item) Name(ctx context.Context) (string, error) { return i.ItemName, nil }
func (i *Item) Start(ctx context.Context) (int, error)   { return i.StartF, nil }
func (i *Item) End(ctx context.Context) (int, error)     { return i.EndF, nil }

func (i *Item) Duration(ctx context.Context) (int, error) {
	return i.EndF - i.StartF, nil
}

func (i *Item) ClipColor(ctx context.Context) (string, error) { return i.Color, nil }

func (i *Item) SetClipColor(ctx context.Context, color string) error {
	if i.RefuseColoring {
		return resolve.Refused("set clip color")
	}
	i.Color = color
	return nil
}

func (i *Item) ClearClipColor(ctx context.Context) error {
	if i.RefuseColoring {
		return resolve.Refused("clear clip color")
	}
	i.Color = ""
	return nil
}

func (i *Item) NodeCount(ctx context.Context) (int, error) { return len(i.Nodes), nil }

func (i *Item) NodeLabel(ctx context.Context, node int) (string, error) {
	n, err := i.node(node)
	if err != nil {
		return "", err
	}
	return n.Label, nil
}

func (i *Item) LUT(ctx context.Context, node int) (string, error) {
	n, err := i.node(node)
	if err != nil {
		return "", err
	}
	return n.LUTPath, nil
}

func (i *Item) SetLUT(ctx context.Context, node int, path string) error {
	if i.RefuseNodeOps {
		return resolve.Refused("set lut")
	}
	n, err := i.node(node)
	if err != nil {
		return err
	}
	n.LUTPath = path
	return nil
}

func (i *Item) NodeColorData(ctx context.Context, node int) (cdl.ColorCorrection, error) {
	n, err := i.node(node)
	if err != nil {
		return cdl.ColorCorrection{}, err
	}
	return n.Color, nil
}

func (i *Item) SetNodeColorData(ctx context.Context, node int, correction cdl.ColorCorrection) error {
	if i.RefuseNodeOps {
		return resolve.Refused("set node color data")
	}
	n, err := i.node(node)
	if err != nil {
		return err
	}
	n.Color = correction
	return nil
}

func (i *Item) ApplyGradeFromDRX(ctx context.Context, path string, mode resolve.GradeMode) error {
	if i.RefuseNodeOps {
		return resolve.Refused("apply grade from drx")
	}
	i.AppliedDRX = append(i.AppliedDRX, path)
	return nil
}

func (i *Item) node(node int) (*Node, error) {
	if node < 1 || node > len(i.Nodes) {
		return nil, fmt.Errorf("node %d out of range (item has %d nodes)", node, len(i.Nodes))
	}
	return i.Nodes[node-1], nil
}

// MediaPool is an in-memory resolve.MediaPool.
type MediaPool struct {
	Root *Folder
}

// NewMediaPool returns a pool with an empty Master folder.
func NewMediaPool() *MediaPool {
	return &MediaPool{Root: &Folder{FolderName: "Master"}}
}

func (p *MediaPool) RootFolder(ctx context.Context) (resolve.Folder, error) {
	return p.Root, nil
}

func (p *MediaPool) AddSubFolder(ctx context.Context, parent resolve.Folder, name string) (resolve.Folder, error) {
	folder, ok := parent.(*Folder)
	if !ok {
		return nil, resolve.Refused("add sub folder " + name)
	}
	sub := &Folder{FolderName: name}
	folder.Subs = append(folder.Subs, sub)
	return sub, nil
}

func (p *MediaPool) MoveClips(ctx context.Context, clips []resolve.Clip, target resolve.Folder) error {
	dest, ok := target.(*Folder)
	if !ok {
		return resolve.Refused("move clips")
	}
	for _, c := range clips {
		clip, ok := c.(*Clip)
		if !ok {
			return resolve.Refused("move clips")
		}
		p.Root.remove(clip)
		dest.ClipList = append(dest.ClipList, clip)
	}
	return nil
}

func (p *MediaPool) DeleteFolders(ctx context.Context, folders []resolve.Folder) error {
	for _, f := range folders {
		folder, ok := f.(*Folder)
		if !ok {
			return resolve.Refused("delete folders")
		}
		if !p.Root.removeFolder(folder) {
			return resolve.Refused("delete folder " + folder.FolderName)
		}
	}
	return nil
}

func (p *MediaPool) ImportMedia(ctx context.Context, paths []string) ([]resolve.Clip, error) {
	clips := make([]resolve.Clip, 0, len(paths))
	for _, path := range paths {
		clip := &Clip{ClipName: path, Props: map[string]string{"File Path": path}}
		p.Root.ClipList = append(p.Root.ClipList, clip)
		clips = append(clips, clip)
	}
	return clips, nil
}

// Folder is an in-memory resolve.Folder.
type Folder struct {
	FolderName string
	ClipList   []*Clip
	Subs       []*Folder
}

func (f *Folder) Name(ctx context.Context) (string, error) { return f.FolderName, nil }

func (f *Folder) Clips(ctx context.Context) ([]resolve.Clip, error) {
	clips := make([]resolve.Clip, len(f.ClipList))
	for i, c := range f.ClipList {
		clips[i] = c
	}
	return clips, nil
}

func (f *Folder) SubFolders(ctx context.Context) ([]resolve.Folder, error) {
	subs := make([]resolve.Folder, len(f.Subs))
	for i, s := range f.Subs {
		subs[i] = s
	}
	return subs, nil
}

func (f *Folder) remove(clip *Clip) bool {
	for i, c := range f.ClipList {
		if c == clip {
			f.ClipList = append(f.ClipList[:i], f.ClipList[i+1:]...)
			return true
		}
	}
	for _, sub := range f.Subs {
		if sub.remove(clip) {
			return true
		}
	}
	return false
}

func (f *Folder) removeFolder(folder *Folder) bool {
	for i, sub := range f.Subs {
		if sub == folder {
			f.Subs = append(f.Subs[:i], f.Subs[i+1:]...)
			return true
		}
		if sub.removeFolder(folder) {
			return true
		}
	}
	return false
}

// Clip is an in-memory resolve.Clip.
type Clip struct {
	ClipName     string
	Color        string
	Props        map[string]string
	RefuseRename bool
}

// NewClip returns a clip with the given name and properties.
func NewClip(name string, props map[string]string) *Clip {
	if props == nil {
		props = map[string]string{}
	}
	return &Clip{ClipName: name, Props: props}
}

func (c *Clip) Name(ctx context.Context) (string, error) { return c.ClipName, nil }

func (c *Clip) SetName(ctx context.Context, name string) error {
	if c.RefuseRename {
		return resolve.Refused("rename clip")
	}
	c.ClipName = name
	return nil
}

func (c *Clip) ClipColor(ctx context.Context) (string, error) { return c.Color, nil }

func (c *Clip) SetClipColor(ctx context.Context, color string) error {
	c.Color = color
	return nil
}

func (c *Clip) Property(ctx context.Context, key string) (string, error) {
	return c.Props[key], nil
}

func (c *Clip) Properties(ctx context.Context) (map[string]string, error) {
	props := make(map[string]string, len(c.Props))
	for k, v := range c.Props {
		props[k] = v
	}
	return props, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
