package interfaces

// ExamConfig holds the configuration of one registered exam. It is created
// once by CreateExam and mutated only by CloseExam; Instructor, the window,
// and the threshold are immutable after creation.
type ExamConfig struct {
	ExamID        ExamID
	Instructor    AccountAddress
	StartTime     uint64
	EndTime       uint64
	MinTrustScore uint64
	IsActive      bool
}

// InWindow reports whether the supplied time falls inside the exam's
// submission window. Both boundaries are inclusive.
func (c *ExamConfig) InWindow(now uint64) bool {
	return now >= c.StartTime && now <= c.EndTime
}

// Attestation is a single submitter's recorded proctoring result for one
// exam. Written exactly once, never mutated or deleted.
type Attestation struct {
	IdentityHash IdentityHash
	TrustScore   uint64
	ProofHash    ProofHash
	Timestamp    uint64
	ExamID       ExamID
}
