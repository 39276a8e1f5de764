package scan

import "iter"

// WorkList yields every (host, port) pair, host-major: all ports of the
// first host in input order, then all ports of the second, and so on.
// ports is walked once per host, so it must be restartable.
func WorkList(hosts []string, ports iter.Seq[int]) iter.Seq[Target] {
	return func(yield func(Target) bool) {
		for _, h := range hosts {
			for p := range ports {
				if !yield(Target{Host: h, Port: p}) {
					return
				}
			}
		}
	}
}

// WorkListLen returns |hosts| × |ports|.
func WorkListLen(hosts []string, ports PortSource) int {
	return len(hosts) * ports.Len()
}

// Waves partitions seq into consecutive chunks of size targets; the last
// chunk may be shorter.  Every chunk is a fresh slice.  A size below 1
// is treated as 1.
func Waves(seq iter.Seq[Target], size int) iter.Seq[[]Target] {
	size = max(size, 1)
	return func(yield func([]Target) bool) {
		wave := make([]Target, 0, size)
		for t := range seq {
			wave = append(wave, t)
			if len(wave) == size {
				if !yield(wave) {
					return
				}
				wave = make([]Target, 0, size)
			}
		}
		if len(wave) > 0 {
			yield(wave)
		}
	}
}
