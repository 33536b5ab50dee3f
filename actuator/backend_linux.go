//go:build linux

package actuator

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/Gthulhu/smoothtask/domain"
	"golang.org/x/sys/unix"
)

const (
	ioprioWhoProcess = 1

	schedFlagKeepPolicy  = 0x08
	schedFlagKeepParams  = 0x10
	schedFlagLatencyNice = 0x80
)

// schedAttr is struct sched_attr including the latency_nice extension.
type schedAttr struct {
	Size          uint32
	SchedPolicy   uint32
	SchedFlags    uint64
	SchedNice     int32
	SchedPriority uint32
	SchedRuntime  uint64
	SchedDeadline uint64
	SchedPeriod   uint64
	SchedUtilMin  uint32
	SchedUtilMax  uint32
	LatencyNice   int32
}

func setNice(pid int, nice int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, nice)
}

func setLatencyNice(pid int, latencyNice int) error {
	attr := schedAttr{
		SchedFlags:  schedFlagKeepPolicy | schedFlagKeepParams | schedFlagLatencyNice,
		LatencyNice: int32(latencyNice),
	}
	attr.Size = uint32(unsafe.Sizeof(attr))
	_, _, errno := unix.Syscall(unix.SYS_SCHED_SETATTR, uintptr(pid), uintptr(unsafe.Pointer(&attr)), 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func setIOPriority(pid int, prio domain.IOPriority) error {
	_, _, errno := unix.Syscall(unix.SYS_IOPRIO_SET, ioprioWhoProcess, uintptr(pid), uintptr(encodeIOPriority(prio)))
	if errno != 0 {
		return errno
	}
	return nil
}

func getIOPriority(pid int) (domain.IOPriority, error) {
	r, _, errno := unix.Syscall(unix.SYS_IOPRIO_GET, ioprioWhoProcess, uintptr(pid), 0)
	if errno != 0 {
		return domain.IOPriority{}, classifyErrno(errno)
	}
	return decodeIOPriority(int(r)), nil
}

// classifyErrno maps syscall errors to the domain error kinds.
func classifyErrno(err error) error {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return err
	}
	switch errno {
	case unix.ESRCH:
		return fmt.Errorf("%w: %v", domain.ErrProcessNotFound, err)
	case unix.EPERM, unix.EACCES:
		return fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
	case unix.ENOSYS, unix.EINVAL, unix.E2BIG:
		return fmt.Errorf("%w: %v", domain.ErrUnsupported, err)
	}
	return err
}
