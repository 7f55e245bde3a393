package registry

import (
	"context"

	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/trs"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=snapshot.go SnapshotSource

// SnapshotSource yields the three top-level documents of a previously
// published registry. Both trs.Endpoint (remote registry) and
// local.SnapshotReader (registry branch in a local repository) satisfy it.
type SnapshotSource interface {
	ServiceInfo(ctx context.Context) (*trs.ServiceInfo, error)
	ToolClasses(ctx context.Context) ([]trs.ToolClass, error)
	Tools(ctx context.Context) ([]trs.Tool, error)
}

// Snapshot is the previously published registry state, normalized so that a
// missing or unreadable registry behaves like an empty one: no service
// info, the default tool class catalog, no tools.
type Snapshot struct {
	ServiceInfo *trs.ServiceInfo
	ToolClasses []trs.ToolClass
	Tools       []trs.Tool
}

// LoadSnapshot fetches the previous registry state from src. Fetch and
// parse failures are never fatal; the affected document falls back to its
// empty or default value, which makes the first publish and every later
// publish the same code path. A nil src yields an empty snapshot.
func LoadSnapshot(ctx context.Context, src SnapshotSource) *Snapshot {
	snap := &Snapshot{
		ToolClasses: trs.MergeToolClasses(nil),
		Tools:       []trs.Tool{},
	}
	if src == nil {
		return snap
	}

	info, err := src.ServiceInfo(ctx)
	if err != nil {
		logger.Debugf("No previous service-info, starting fresh: %v", err)
	} else {
		snap.ServiceInfo = info
	}

	classes, err := src.ToolClasses(ctx)
	if err != nil {
		logger.Debugf("No previous tool classes, using the default catalog: %v", err)
	} else {
		snap.ToolClasses = trs.MergeToolClasses(classes)
	}

	tools, err := src.Tools(ctx)
	if err != nil {
		logger.Debugf("No previous tools, starting with an empty list: %v", err)
	} else if tools != nil {
		snap.Tools = tools
	}

	return snap
}
