package genealogy

import (
	"slices"
	"strings"
	"unicode"
)

// TriState is a boolean that may also be unknown.
type TriState uint8

const (
	// Unknown means the cell was empty or not recognizable as a boolean.
	Unknown TriState = iota
	// False means the cell explicitly said false, 0 or no.
	False
	// True means the cell explicitly said true, 1 or yes.
	True
)

// ParseTriState parses a boolean-like cell. Matching is case-insensitive and
// ignores surrounding whitespace; unrecognized values are Unknown.
func ParseTriState(s string) TriState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return True
	case "false", "0", "no":
		return False
	default:
		return Unknown
	}
}

// Known reports whether the value is True or False.
func (t TriState) Known() bool { return t != Unknown }

// Ptr returns nil for Unknown and a pointer to the value otherwise.
// Each call returns a fresh pointer.
func (t TriState) Ptr() *bool {
	if t == Unknown {
		return nil
	}
	v := t == True
	return &v
}

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// IsPersonID reports whether id identifies a person: a non-empty string of
// decimal digits. Legend rows in the export use other ids.
func IsPersonID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Person is one genealogical individual. Optional attributes are stored in
// their already-normalized form: empty strings and nil slices mean absent.
// A Person is never modified after loading.
type Person struct {
	ID   string
	Name string

	// Flags that are only meaningful when set.
	MessiahLine bool
	Levitical   bool
	Judge       bool

	InitiallyVisible     TriState
	HadCollapsedChildren TriState

	// TooltipRaw is the trimmed tooltip with inner line breaks preserved.
	TooltipRaw string
	// Tooltip is TooltipRaw with every whitespace run collapsed to one space.
	Tooltip string

	Spouse string
	Refs   []string
}

// Node table column names.
const (
	ColID                   = "id"
	ColName                 = "name"
	ColMessiahLine          = "messiahLine"
	ColLevitical            = "levitical"
	ColJudge                = "judge"
	ColInitiallyVisible     = "initiallyVisible"
	ColHadCollapsedChildren = "hadCollapsedChildren"
	ColTooltipRaw           = "tooltipRaw"
	ColSpouse               = "spouse"
	ColRefs                 = "refs"
)

// newPerson builds a Person from a node row, applying the presence rules.
func newPerson(row record) *Person {
	id := row.get(ColID)
	p := &Person{
		ID:                   id,
		Name:                 row.get(ColName),
		MessiahLine:          ParseTriState(row.get(ColMessiahLine)) == True,
		Levitical:            ParseTriState(row.get(ColLevitical)) == True,
		Judge:                ParseTriState(row.get(ColJudge)) == True,
		InitiallyVisible:     ParseTriState(row.get(ColInitiallyVisible)),
		HadCollapsedChildren: ParseTriState(row.get(ColHadCollapsedChildren)),
		Spouse:               strings.TrimSpace(row.get(ColSpouse)),
		Refs:                 SplitRefs(row.get(ColRefs)),
	}
	if p.Name == "" {
		p.Name = id
	}
	if raw := strings.TrimSpace(row.get(ColTooltipRaw)); raw != "" {
		p.TooltipRaw = raw
		p.Tooltip = strings.Join(strings.Fields(raw), " ")
	}
	return p
}

// SplitRefs splits a semicolon-delimited reference cell. Pieces are trimmed
// and empty pieces dropped; the result is nil when nothing remains.
func SplitRefs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var refs []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			refs = append(refs, part)
		}
	}
	return refs
}

// Persons maps person ids to their records.
type Persons map[string]*Person

// Get returns the person with the given id.
func (p Persons) Get(id string) (*Person, bool) {
	person, ok := p[id]
	return person, ok
}

// Has reports whether id is a loaded person.
func (p Persons) Has(id string) bool {
	_, ok := p[id]
	return ok
}

// IDs returns all person ids in ascending numeric order.
func (p Persons) IDs() []string {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareIDs)
	return ids
}

// compareIDs orders numeric ids by value: shorter digit strings first, then
// lexically. Leading zeros are not stripped.
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}
