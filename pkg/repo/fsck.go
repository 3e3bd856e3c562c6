package repo

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
)

// FsckReport summarizes a repository check.
type FsckReport struct {
	Objects      int
	Reachable    int
	Unreachable  []object.Hash
	DanglingRefs []string
}

// Fsck re-hashes every stored object and walks the history reachable from
// every ref. All problems found are returned together as one combined error;
// the report is filled in as far as the check got.
func (r *Repo) Fsck() (*FsckReport, error) {
	report := &FsckReport{}

	all, err := r.Store.List()
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}
	report.Objects = len(all)

	var errs error
	for _, h := range all {
		errs = multierr.Append(errs, r.Store.Verify(h))
	}

	list, err := r.ListRefs()
	if err != nil {
		return report, multierr.Append(errs, fmt.Errorf("fsck: %w", err))
	}
	var roots []object.Hash
	for _, ref := range list {
		if ref.Hash == "" {
			report.DanglingRefs = append(report.DanglingRefs, ref.Name)
			continue
		}
		roots = append(roots, ref.Hash)
	}

	reachable, err := r.Store.ReachableSet(roots)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("fsck: %w", err))
	} else {
		report.Reachable = len(reachable)
		for _, h := range all {
			if _, ok := reachable[h]; !ok {
				report.Unreachable = append(report.Unreachable, h)
			}
		}
	}

	r.logger.Debug("fsck finished",
		zap.Int("objects", report.Objects),
		zap.Int("reachable", report.Reachable),
		zap.Int("unreachable", len(report.Unreachable)),
		zap.Int("problems", len(multierr.Errors(errs))),
	)
	return report, errs
}
