package artikel

import "strings"

// Stage names the part of the pipeline that produced a decision.
type Stage string

const (
	StageException Stage = "exception"
	StageRule      Stage = "rule"
	StageNone      Stage = "none"
)

// Decision is a classification together with how it was reached.
type Decision struct {
	Word     string `json:"word"`
	Form     Form   `json:"form"`
	Gender   Gender `json:"article"`
	Stage    Stage  `json:"stage"`
	Rule     string `json:"rule,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// Classify returns the gender for an already normalised form, or Unknown.
func Classify(f Form) Gender {
	return Explain(f).Gender
}

// Explain classifies f and reports which dictionary entry or rule decided.
func Explain(f Form) Decision {
	d := Decision{Form: f}
	if g, ok := lookupException(f); ok {
		d.Gender = g
		d.Stage = StageException
		return d
	}
	for _, r := range cascade {
		if r.match(f) {
			d.Gender = r.Gender
			d.Stage = StageRule
			d.Rule = r.Name
			d.Priority = r.Priority
			return d
		}
	}
	d.Stage = StageNone
	return d
}

// DetermineArticle classifies a raw word. Blank input yields Unknown.
func DetermineArticle(raw string) Gender {
	return Decide(raw).Gender
}

// Decide is DetermineArticle with the decision trace attached.
func Decide(raw string) Decision {
	if strings.TrimSpace(raw) == "" {
		return Decision{Word: raw, Stage: StageNone}
	}
	f, err := Normalize(raw)
	if err != nil {
		return Decision{Word: raw, Stage: StageNone}
	}
	d := Explain(f)
	d.Word = raw
	return d
}
