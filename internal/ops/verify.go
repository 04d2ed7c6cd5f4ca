package ops

import (
	"github.com/quillan/vellum/internal/ledger"
)

// ViolationView is the JSON projection of an integrity violation.
type ViolationView struct {
	Index  int    `json:"index"`
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// VerifyOutput contains the result of the VerifyChain operation.
type VerifyOutput struct {
	OK        bool           `json:"ok"`
	Length    int            `json:"length"`
	Violation *ViolationView `json:"violation,omitempty"`
}

// VerifyChain recomputes every entry's linkage and content digest. A failed
// verification is a reportable outcome, not an error: there is no error path.
func VerifyChain(led *ledger.Ledger) *VerifyOutput {
	output := &VerifyOutput{
		OK:     true,
		Length: led.Len(),
	}

	if v := led.Verify(); v != nil {
		output.OK = false
		output.Violation = &ViolationView{
			Index:  v.Index,
			Check:  string(v.Check),
			Detail: v.Detail,
		}
	}

	return output
}
