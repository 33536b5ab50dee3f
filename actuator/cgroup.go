package actuator

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/Gthulhu/smoothtask/domain"
	pkgerrors "github.com/pkg/errors"
)

const (
	minCPUWeight = 1
	maxCPUWeight = 10000

	cgroupDirTTL = 5 * time.Minute
)

// CgroupManager places application groups into their own cgroup v2 directory
// below <root>/<parent> and writes cpu.weight there.
type CgroupManager struct {
	root     string
	parent   string
	procRoot string
	dirs     *cache.Cache[string, string]
}

func NewCgroupManager(root, parent, procRoot string) *CgroupManager {
	return &CgroupManager{
		root:     root,
		parent:   parent,
		procRoot: procRoot,
		dirs:     cache.New[string, string](),
	}
}

// DetectCgroupV2Root returns the first candidate that carries cgroup.controllers.
func DetectCgroupV2Root(candidates ...string) (string, error) {
	if len(candidates) == 0 {
		candidates = []string{"/sys/fs/cgroup", "/sys/fs/cgroup/unified"}
	}
	for _, c := range candidates {
		if _, err := os.Stat(filepath.Join(c, "cgroup.controllers")); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: no cgroup v2 hierarchy under %v", domain.ErrUnsupported, candidates)
}

// ReadProcessCgroup returns the unified hierarchy path of pid, relative to the cgroup root.
func (m *CgroupManager) ReadProcessCgroup(pid int) (string, error) {
	data, err := os.ReadFile(filepath.Join(m.procRoot, strconv.Itoa(pid), "cgroup"))
	if err != nil {
		return "", classifyFSError(err, domain.ErrProcessNotFound)
	}
	path, err := ParseUnifiedCgroup(data)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "pid %d", pid)
	}
	return path, nil
}

// ParseUnifiedCgroup extracts the path of the "0::" line of a /proc/<pid>/cgroup file.
func ParseUnifiedCgroup(data []byte) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if path, ok := strings.CutPrefix(line, "0::"); ok {
			if !strings.HasPrefix(path, "/") {
				return "", fmt.Errorf("%w: unified path %q is not absolute", domain.ErrMalformedCgroup, path)
			}
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no unified hierarchy entry", domain.ErrMalformedCgroup)
}

// AppCgroupDir is the directory owned by an application group. The leaf name
// decodes back to the group id, so a moved process keeps its group identity.
func (m *CgroupManager) AppCgroupDir(appGroupID string) string {
	return filepath.Join(m.root, m.parent, domain.AppCgroupName(appGroupID))
}

// EnsureAppCgroup creates the group directory and enables the cpu controller
// on its ancestors. Created directories are remembered for a while.
func (m *CgroupManager) EnsureAppCgroup(appGroupID string) (string, error) {
	if dir, ok := m.dirs.Get(appGroupID); ok {
		if _, err := os.Stat(dir); err == nil {
			return dir, nil
		}
		m.dirs.Delete(appGroupID)
	}

	dir := m.AppCgroupDir(appGroupID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", classifyFSError(err, domain.ErrUnsupported)
	}
	// best-effort: the controller may already be enabled or delegated elsewhere
	_ = os.WriteFile(filepath.Join(m.root, "cgroup.subtree_control"), []byte("+cpu"), 0o644)
	_ = os.WriteFile(filepath.Join(m.root, m.parent, "cgroup.subtree_control"), []byte("+cpu"), 0o644)

	m.dirs.Set(appGroupID, dir, cache.WithExpiration(cgroupDirTTL))
	return dir, nil
}

// SetWeight writes weight to the group's cpu.weight and moves pid into the group
// unless it already lives there.
func (m *CgroupManager) SetWeight(pid int, appGroupID string, weight int) error {
	if weight < minCPUWeight || weight > maxCPUWeight {
		return fmt.Errorf("cpu.weight %d outside [%d, %d]", weight, minCPUWeight, maxCPUWeight)
	}
	current, err := m.ReadProcessCgroup(pid)
	if err != nil {
		return err
	}
	dir, err := m.EnsureAppCgroup(appGroupID)
	if err != nil {
		return err
	}
	if err := writeControlFile(filepath.Join(dir, "cpu.weight"), strconv.Itoa(weight)); err != nil {
		return classifyFSError(err, domain.ErrUnsupported)
	}
	if filepath.Join(m.root, current) == dir {
		return nil
	}
	if err := writeControlFile(filepath.Join(dir, "cgroup.procs"), strconv.Itoa(pid)); err != nil {
		return classifyFSError(err, domain.ErrUnsupported)
	}
	return nil
}

// ReadWeight returns the cpu.weight of the cgroup pid currently lives in.
func (m *CgroupManager) ReadWeight(pid int) (int, error) {
	current, err := m.ReadProcessCgroup(pid)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(filepath.Join(m.root, current, "cpu.weight"))
	if err != nil {
		return 0, classifyFSError(err, domain.ErrUnsupported)
	}
	weight, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: cpu.weight %q: %v", domain.ErrMalformedCgroup, strings.TrimSpace(string(data)), err)
	}
	return weight, nil
}

// writeControlFile writes to an existing cgroup interface file without creating it.
func writeControlFile(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	_, err = f.WriteString(value)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// classifyFSError maps file system errors to the domain error kinds. A missing
// file maps to notExist, which depends on what the missing file means.
func classifyFSError(err error, notExist error) error {
	switch {
	case errors.Is(err, syscall.ESRCH):
		return fmt.Errorf("%w: %v", domain.ErrProcessNotFound, err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", notExist, err)
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EPERM), errors.Is(err, syscall.EACCES):
		return fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
	}
	return err
}
