package device

import (
	"github.com/rcornwell/minios62/internal/disk"
	"github.com/rcornwell/minios62/internal/memmgr"
)

var (
	_ Device = (*disk.Disk)(nil)
	_ Device = (*memmgr.Manager)(nil)
)
