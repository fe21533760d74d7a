package resolvetest

import "gradectl/internal/resolve"

var (
	_ resolve.Host      = (*Host)(nil)
	_ resolve.Project   = (*Project)(nil)
	_ resolve.Timeline  = (*Timeline)(nil)
	_ resolve.Item      = (*Item)(nil)
	_ resolve.MediaPool = (*MediaPool)(nil)
	_ resolve.Folder    = (*Folder)(nil)
	_ resolve.Clip      = (*Clip)(nil)
)
