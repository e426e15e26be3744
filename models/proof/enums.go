package proof

// ProofType marks which mission checkpoint the evidence documents.
type ProofType string

const (
	ProofTypeStart  ProofType = "start"
	ProofTypeDuring ProofType = "during"
	ProofTypeEnd    ProofType = "end"
)

func (pt ProofType) String() string {
	return string(pt)
}

func (pt ProofType) IsValid() bool {
	switch pt {
	case ProofTypeStart, ProofTypeDuring, ProofTypeEnd:
		return true
	default:
		return false
	}
}

// ProofStatus starts as pending and is set exactly once by an owner decision.
type ProofStatus string

const (
	ProofStatusPending   ProofStatus = "pending"
	ProofStatusValidated ProofStatus = "validated"
	ProofStatusRejected  ProofStatus = "rejected"
)

func (ps ProofStatus) String() string {
	return string(ps)
}

func (ps ProofStatus) IsValid() bool {
	switch ps {
	case ProofStatusPending, ProofStatusValidated, ProofStatusRejected:
		return true
	default:
		return false
	}
}

// IsDecided returns true once an owner has validated or rejected the proof.
func (ps ProofStatus) IsDecided() bool {
	return ps == ProofStatusValidated || ps == ProofStatusRejected
}
