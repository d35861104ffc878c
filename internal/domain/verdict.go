package domain

// Verdict is the outcome of validating one field value.
type Verdict struct {
	State  VerdictState
	Reason string // set only when State is VerdictInvalid
}

func Pending() Verdict { return Verdict{State: VerdictPending} }

func Valid() Verdict { return Verdict{State: VerdictValid} }

func Invalid(reason string) Verdict {
	return Verdict{State: VerdictInvalid, Reason: reason}
}

func (v Verdict) IsPending() bool { return v.State == VerdictPending }

func (v Verdict) IsValid() bool { return v.State == VerdictValid }

func (v Verdict) IsInvalid() bool { return v.State == VerdictInvalid }
