package policy

import "strings"

const disclaimer = "\n\n※ 본 서비스는 번호 생성 도구일 뿐이며, 당첨을 보장하지 않습니다."

// Policy composes the acceptance rules for mission text.
type Policy struct {
	detector *Detector
}

func New(detector *Detector) *Policy {
	if detector == nil {
		detector = NewDetector()
	}
	return &Policy{detector: detector}
}

// Violates reports true when text is blank or contains a forbidden phrase.
func (p *Policy) Violates(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	return p.detector.ContainsForbidden(text)
}

// Check returns the forbidden phrases present in text, for audit logging.
func (p *Policy) Check(text string) []string {
	return p.detector.Violations(text)
}

// Disclaimer is appended to accepted text and is not itself checked.
func (p *Policy) Disclaimer() string { return disclaimer }
