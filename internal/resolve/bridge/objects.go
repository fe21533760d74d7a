package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gradectl/internal/cdl"
	"gradectl/internal/resolve"
)

type project struct {
	c *Client
	h string
}

var _ resolve.Project = (*project)(nil)

func (p *project) Name(ctx context.Context) (string, error) {
	return p.c.callString(ctx, p.h, "GetName")
}

func (p *project) Setting(ctx context.Context, key string) (string, error) {
	return p.c.callString(ctx, p.h, "GetSetting", key)
}

func (p *project) SetSetting(ctx context.Context, key, value string) error {
	return p.c.callBool(ctx, p.h, "SetSetting", key, value)
}

func (p *project) CurrentTimeline(ctx context.Context) (resolve.Timeline, error) {
	h, err := p.c.callHandle(ctx, p.h, "GetCurrentTimeline")
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, resolve.ErrNoTimeline
	}
	return &timeline{c: p.c, h: h}, nil
}

func (p *project) TimelineCount(ctx context.Context) (int, error) {
	return p.c.callInt(ctx, p.h, "GetTimelineCount")
}

func (p *project) TimelineByIndex(ctx context.Context, index int) (resolve.Timeline, error) {
	h, err := p.c.callHandle(ctx, p.h, "GetTimelineByIndex", index)
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, fmt.Errorf("timeline index %d out of range", index)
	}
	return &timeline{c: p.c, h: h}, nil
}

func (p *project) SetCurrentTimeline(ctx context.Context, t resolve.Timeline) error {
	tl, ok := t.(*timeline)
	if !ok {
		return fmt.Errorf("timeline does not belong to this bridge session")
	}
	return p.c.callBool(ctx, p.h, "SetCurrentTimeline", handleRef{Handle: tl.h})
}

func (p *project) MediaPool(ctx context.Context) (resolve.MediaPool, error) {
	h, err := p.c.callHandle(ctx, p.h, "GetMediaPool")
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, resolve.Refused("GetMediaPool")
	}
	return &mediaPool{c: p.c, h: h}, nil
}

func (p *project) RefreshLUTList(ctx context.Context) error {
	return p.c.callBool(ctx, p.h, "RefreshLUTList")
}

func (p *project) RenderJobs(ctx context.Context) ([]resolve.RenderJob, error) {
	raw, err := p.c.invoke(ctx, p.h, "GetRenderJobList")
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, nil
	}
	var jobs []resolve.RenderJob
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, fmt.Errorf("GetRenderJobList: decode result: %w", err)
	}
	return jobs, nil
}

func (p *project) SetRenderSettings(ctx context.Context, settings resolve.RenderSettings) error {
	return p.c.callBool(ctx, p.h, "SetRenderSettings", settings)
}

func (p *project) AddRenderJob(ctx context.Context) (string, error) {
	id, err := p.c.callString(ctx, p.h, "AddRenderJob")
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", resolve.Refused("AddRenderJob")
	}
	return id, nil
}

func (p *project) DeleteRenderJob(ctx context.Context, jobID string) error {
	return p.c.callBool(ctx, p.h, "DeleteRenderJob", jobID)
}

func (p *project) StartRendering(ctx context.Context, jobIDs ...string) error {
	args := make([]any, len(jobIDs))
	for i, id := range jobIDs {
		args[i] = id
	}
	return p.c.callBool(ctx, p.h, "StartRendering", args...)
}

func (p *project) StopRendering(ctx context.Context) error {
	// StopRendering has no return value on the host; the bridge answers true.
	return p.c.callBool(ctx, p.h, "StopRendering")
}

func (p *project) IsRenderingInProgress(ctx context.Context) (bool, error) {
	raw, err := p.c.invoke(ctx, p.h, "IsRenderingInProgress")
	if err != nil {
		return false, err
	}
	var rendering bool
	if err := json.Unmarshal(raw, &rendering); err != nil {
		return false, fmt.Errorf("IsRenderingInProgress: decode result: %w", err)
	}
	return rendering, nil
}

type timeline struct {
	c *Client
	h string
}

var _ resolve.Timeline = (*timeline)(nil)

func (t *timeline) Name(ctx context.Context) (string, error) {
	return t.c.callString(ctx, t.h, "GetName")
}

func (t *timeline) FrameRate(ctx context.Context) (float64, error) {
	s, err := t.c.callString(ctx, t.h, "GetSetting", "timelineFrameRate")
	if err != nil {
		return 0, err
	}
	fps, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse timeline frame rate %q: %w", s, err)
	}
	return fps, nil
}

func (t *timeline) StartFrame(ctx context.Context) (int, error) {
	return t.c.callInt(ctx, t.h, "GetStartFrame")
}

func (t *timeline) EndFrame(ctx context.Context) (int, error) {
	return t.c.callInt(ctx, t.h, "GetEndFrame")
}

func (t *timeline) VideoTrackCount(ctx context.Context) (int, error) {
	return t.c.callInt(ctx, t.h, "GetTrackCount", "video")
}

func (t *timeline) ItemsInVideoTrack(ctx context.Context, track int) ([]resolve.Item, error) {
	handles, err := t.c.callHandles(ctx, t.h, "GetItemListInTrack", "video", track)
	if err != nil {
		return nil, err
	}
	items := make([]resolve.Item, len(handles))
	for i, h := range handles {
		items[i] = &item{c: t.c, h: h}
	}
	return items, nil
}

func (t *timeline) Markers(ctx context.Context) ([]resolve.Marker, error) {
	raw, err := t.c.invoke(ctx, t.h, "GetMarkers")
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, nil
	}
	var markers []resolve.Marker
	if err := json.Unmarshal(raw, &markers); err != nil {
		return nil, fmt.Errorf("GetMarkers: decode result: %w", err)
	}
	return markers, nil
}

func (t *timeline) AddMarker(ctx context.Context, m resolve.Marker) error {
	return t.c.callBool(ctx, t.h, "AddMarker", m.Frame, m.Color, m.Name, m.Note, m.Duration, m.CustomData)
}

func (t *timeline) DeleteMarkerAtFrame(ctx context.Context, frame int) error {
	return t.c.callBool(ctx, t.h, "DeleteMarkerAtFrame", frame)
}

func (t *timeline) DeleteMarkersByColor(ctx context.Context, color string) error {
	return t.c.callBool(ctx, t.h, "DeleteMarkersByColor", color)
}

type item struct {
	c *Client
	h string
}

var _ resolve.Item = (*item)(nil)

func (i *item) Name(ctx context.Context) (string, error) {
	return i.c.callString(ctx, i.h, "GetName")
}

func (i *item) Start(ctx context.Context) (int, error) {
	return i.c.callInt(ctx, i.h, "GetStart")
}

func (i *item) End(ctx context.Context) (int, error) {
	return i.c.callInt(ctx, i.h, "GetEnd")
}

func (i *item) Duration(ctx context.Context) (int, error) {
	return i.c.callInt(ctx, i.h, "GetDuration")
}

func (i *item) ClipColor(ctx context.Context) (string, error) {
	return i.c.callString(ctx, i.h, "GetClipColor")
}

func (i *item) SetClipColor(ctx context.Context, color string) error {
	return i.c.callBool(ctx, i.h, "SetClipColor", color)
}

func (i *item) ClearClipColor(ctx context.Context) error {
	return i.c.callBool(ctx, i.h, "ClearClipColor")
}

func (i *item) NodeCount(ctx context.Context) (int, error) {
	return i.c.callInt(ctx, i.h, "GetNumNodes")
}

func (i *item) NodeLabel(ctx context.Context, node int) (string, error) {
	return i.c.callString(ctx, i.h, "GetNodeLabel", node)
}

func (i *item) LUT(ctx context.Context, node int) (string, error) {
	return i.c.callString(ctx, i.h, "GetLUT", node)
}

func (i *item) SetLUT(ctx context.Context, node int, path string) error {
	return i.c.callBool(ctx, i.h, "SetLUT", node, path)
}

func (i *item) NodeColorData(ctx context.Context, node int) (cdl.ColorCorrection, error) {
	raw, err := i.c.invoke(ctx, i.h, "GetNodeColorData", node)
	if err != nil {
		return cdl.ColorCorrection{}, err
	}
	if isNull(raw) {
		// A node without explicit color data reads as identity.
		return cdl.Identity(), nil
	}
	var payload cdlPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return cdl.ColorCorrection{}, fmt.Errorf("GetNodeColorData: decode result: %w", err)
	}
	return fromPayload(payload), nil
}

func (i *item) SetNodeColorData(ctx context.Context, node int, correction cdl.ColorCorrection) error {
	return i.c.callBool(ctx, i.h, "SetNodeColorData", node, toPayload(correction))
}

func (i *item) ApplyGradeFromDRX(ctx context.Context, path string, mode resolve.GradeMode) error {
	return i.c.callBool(ctx, i.h, "ApplyGradeFromDRX", path, int(mode))
}

type mediaPool struct {
	c *Client
	h string
}

var _ resolve.MediaPool = (*mediaPool)(nil)

func (p *mediaPool) RootFolder(ctx context.Context) (resolve.Folder, error) {
	h, err := p.c.callHandle(ctx, p.h, "GetRootFolder")
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, resolve.Refused("GetRootFolder")
	}
	return &folder{c: p.c, h: h}, nil
}

func (p *mediaPool) AddSubFolder(ctx context.Context, parent resolve.Folder, name string) (resolve.Folder, error) {
	pf, ok := parent.(*folder)
	if !ok {
		return nil, fmt.Errorf("folder does not belong to this bridge session")
	}
	h, err := p.c.callHandle(ctx, p.h, "AddSubFolder", handleRef{Handle: pf.h}, name)
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, resolve.Refused("AddSubFolder " + name)
	}
	return &folder{c: p.c, h: h}, nil
}

func (p *mediaPool) MoveClips(ctx context.Context, clips []resolve.Clip, target resolve.Folder) error {
	tf, ok := target.(*folder)
	if !ok {
		return fmt.Errorf("folder does not belong to this bridge session")
	}
	refs := make([]handleRef, len(clips))
	for i, c := range clips {
		mc, ok := c.(*clip)
		if !ok {
			return fmt.Errorf("clip does not belong to this bridge session")
		}
		refs[i] = handleRef{Handle: mc.h}
	}
	return p.c.callBool(ctx, p.h, "MoveClips", refs, handleRef{Handle: tf.h})
}

func (p *mediaPool) DeleteFolders(ctx context.Context, folders []resolve.Folder) error {
	refs := make([]handleRef, len(folders))
	for i, f := range folders {
		ff, ok := f.(*folder)
		if !ok {
			return fmt.Errorf("folder does not belong to this bridge session")
		}
		refs[i] = handleRef{Handle: ff.h}
	}
	return p.c.callBool(ctx, p.h, "DeleteFolders", refs)
}

func (p *mediaPool) ImportMedia(ctx context.Context, paths []string) ([]resolve.Clip, error) {
	handles, err := p.c.callHandles(ctx, p.h, "ImportMedia", paths)
	if err != nil {
		return nil, err
	}
	if len(handles) == 0 {
		return nil, resolve.Refused("ImportMedia")
	}
	clips := make([]resolve.Clip, len(handles))
	for i, h := range handles {
		clips[i] = &clip{c: p.c, h: h}
	}
	return clips, nil
}

type folder struct {
	c *Client
	h string
}

var _ resolve.Folder = (*folder)(nil)

func (f *folder) Name(ctx context.Context) (string, error) {
	return f.c.callString(ctx, f.h, "GetName")
}

func (f *folder) Clips(ctx context.Context) ([]resolve.Clip, error) {
	handles, err := f.c.callHandles(ctx, f.h, "GetClipList")
	if err != nil {
		return nil, err
	}
	clips := make([]resolve.Clip, len(handles))
	for i, h := range handles {
		clips[i] = &clip{c: f.c, h: h}
	}
	return clips, nil
}

func (f *folder) SubFolders(ctx context.Context) ([]resolve.Folder, error) {
	handles, err := f.c.callHandles(ctx, f.h, "GetSubFolderList")
	if err != nil {
		return nil, err
	}
	folders := make([]resolve.Folder, len(handles))
	for i, h := range handles {
		folders[i] = &folder{c: f.c, h: h}
	}
	return folders, nil
}

type clip struct {
	c *Client
	h string
}

var _ resolve.Clip = (*clip)(nil)

func (c *clip) Name(ctx context.Context) (string, error) {
	return c.c.callString(ctx, c.h, "GetName")
}

func (c *clip) SetName(ctx context.Context, name string) error {
	return c.c.callBool(ctx, c.h, "SetClipProperty", "Clip Name", name)
}

func (c *clip) ClipColor(ctx context.Context) (string, error) {
	return c.c.callString(ctx, c.h, "GetClipColor")
}

func (c *clip) SetClipColor(ctx context.Context, color string) error {
	return c.c.callBool(ctx, c.h, "SetClipColor", color)
}

func (c *clip) Property(ctx context.Context, key string) (string, error) {
	return c.c.callString(ctx, c.h, "GetClipProperty", key)
}

func (c *clip) Properties(ctx context.Context) (map[string]string, error) {
	raw, err := c.c.invoke(ctx, c.h, "GetClipProperty")
	if err != nil {
		return nil, err
	}
	var props map[string]string
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("GetClipProperty: decode result: %w", err)
	}
	return props, nil
}

func fromPayload(p cdlPayload) cdl.ColorCorrection {
	cc := cdl.Identity()
	copyTriple(&cc.Slope, p.Slope)
	copyTriple(&cc.Offset, p.Offset)
	copyTriple(&cc.Power, p.Power)
	if p.Saturation != 0 {
		cc.Saturation = p.Saturation
	}
	return cc
}

func toPayload(cc cdl.ColorCorrection) cdlPayload {
	return cdlPayload{
		Slope:      []float64{cc.Slope[0], cc.Slope[1], cc.Slope[2], 1},
		Offset:     []float64{cc.Offset[0], cc.Offset[1], cc.Offset[2], 0},
		Power:      []float64{cc.Power[0], cc.Power[1], cc.Power[2], 1},
		Saturation: cc.Saturation,
	}
}

func copyTriple(dst *[3]float64, src []float64) {
	for i := 0; i < 3 && i < len(src); i++ {
		dst[i] = src[i]
	}
}
