package repo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
)

// GCSummary reports what GC removed.
type GCSummary struct {
	Kept   int
	Pruned []object.Hash
	DryRun bool
}

// GC deletes every object that no ref can reach. With dryRun set nothing is
// deleted and the summary lists what would be. A ref that points at a
// missing object, or a history with holes, aborts the collection.
func (r *Repo) GC(dryRun bool) (*GCSummary, error) {
	list, err := r.ListRefs()
	if err != nil {
		return nil, fmt.Errorf("gc: %w", err)
	}
	roots := make([]object.Hash, 0, len(list))
	for _, ref := range list {
		if ref.Hash != "" {
			roots = append(roots, ref.Hash)
		}
	}

	reachable, err := r.Store.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("gc: %w", err)
	}
	all, err := r.Store.List()
	if err != nil {
		return nil, fmt.Errorf("gc: %w", err)
	}

	sum := &GCSummary{DryRun: dryRun}
	for _, h := range all {
		if _, ok := reachable[h]; ok {
			sum.Kept++
			continue
		}
		if !dryRun {
			if err := r.Store.Delete(h); err != nil {
				return sum, fmt.Errorf("gc: %w", err)
			}
		}
		sum.Pruned = append(sum.Pruned, h)
	}

	r.logger.Debug("gc finished",
		zap.Int("kept", sum.Kept),
		zap.Int("pruned", len(sum.Pruned)),
		zap.Bool("dry_run", dryRun),
	)
	return sum, nil
}
