package domain

import "fmt"

// ProgramProfile measures one execution of a submission.
type ProgramProfile struct {
	// RuntimeMillis is the CPU time consumed, in milliseconds.
	RuntimeMillis int64 `json:"runtime_ms"`

	// MemoryUsageBytes is the peak memory usage, in bytes.
	MemoryUsageBytes int64 `json:"memory_bytes"`
}

// NewProgramProfile creates a ProgramProfile, rejecting negative values.
func NewProgramProfile(runtimeMillis, memoryUsageBytes int64) (ProgramProfile, error) {
	p := ProgramProfile{RuntimeMillis: runtimeMillis, MemoryUsageBytes: memoryUsageBytes}
	if err := p.validate(); err != nil {
		return ProgramProfile{}, err
	}
	return p, nil
}

func (p ProgramProfile) validate() error {
	if p.RuntimeMillis < 0 {
		return fmt.Errorf("%w: runtime %dms is negative", ErrInvalidProfile, p.RuntimeMillis)
	}
	if p.MemoryUsageBytes < 0 {
		return fmt.Errorf("%w: memory usage %d bytes is negative", ErrInvalidProfile, p.MemoryUsageBytes)
	}
	return nil
}
