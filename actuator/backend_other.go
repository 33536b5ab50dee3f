//go:build !linux

package actuator

import "github.com/Gthulhu/smoothtask/domain"

func setNice(pid int, nice int) error {
	return domain.ErrUnsupported
}

func setLatencyNice(pid int, latencyNice int) error {
	return domain.ErrUnsupported
}

func setIOPriority(pid int, prio domain.IOPriority) error {
	return domain.ErrUnsupported
}

func getIOPriority(pid int) (domain.IOPriority, error) {
	return domain.IOPriority{}, domain.ErrUnsupported
}

func classifyErrno(err error) error {
	return err
}
