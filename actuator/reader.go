package actuator

import (
	"context"
	"errors"
	"io/fs"

	"github.com/Gthulhu/smoothtask/domain"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/procfs"
)

// ProcReader reads the current priority settings of live processes.
// Latency nice has no portable read interface and is always reported as unknown.
type ProcReader struct {
	fs      procfs.FS
	cgroups *CgroupManager
}

// NewProcReader returns a reader over the procfs mounted at procRoot; cgroups
// may be nil when cpu.weight is not managed.
func NewProcReader(procRoot string, cgroups *CgroupManager) (*ProcReader, error) {
	procFS, err := procfs.NewFS(procRoot)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open procfs at %s", procRoot)
	}
	return &ProcReader{fs: procFS, cgroups: cgroups}, nil
}

// ReadPriority reads nice from /proc/<pid>/stat, which reports the kernel
// value in [-20, 19] rather than the raw getpriority result.
func (r *ProcReader) ReadPriority(ctx context.Context, pid int) (domain.CurrentPriority, error) {
	var current domain.CurrentPriority

	proc, err := r.fs.Proc(pid)
	if err != nil {
		return current, procError(err)
	}
	stat, err := proc.Stat()
	if err != nil {
		return current, procError(err)
	}
	nice := stat.Nice
	current.Nice = &nice

	if prio, err := getIOPriority(pid); err == nil {
		current.IONice = &prio
	}
	if r.cgroups != nil {
		if weight, err := r.cgroups.ReadWeight(pid); err == nil {
			current.CPUWeight = &weight
		}
	}
	return current, nil
}

func procError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrProcessNotFound
	}
	return err
}
