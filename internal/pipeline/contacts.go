package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal/config"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/lexicon"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/util"
)

// Contacts is the disambiguated contact block of a generator record. Every
// field is populated after ApplyContactRules.
type Contacts struct {
	ResponsibleName  string
	ResponsiblePhone string
	Landline         string
	AccessEmail      string
}

// contactState carries the raw resolved values through the rule pipeline.
// Empty string means unresolved; defaults are applied by the final rules.
type contactState struct {
	Name     string
	Mobile   string
	Landline string
	Email    string
	Generic  string
	Seq      int
}

type contactRule struct {
	name  string
	apply func(*contactState, config.Config)
}

// contactRules run strictly in order. Each rule is total: whatever the input,
// it leaves the state closer to fully populated and never fails.
var contactRules = []contactRule{
	{name: "classify-generic", apply: classifyGeneric},
	{name: "swap-email-in-phone", apply: swapEmailInPhone},
	{name: "synthesize-access-email", apply: synthesizeAccessEmail},
	{name: "placeholder-phone", apply: placeholderPhone},
}

// classifyGeneric routes a catch-all "Contato" cell by content: an "@" makes
// it the access email, a digit makes it the mobile, anything else becomes the
// responsible name. Never overwrites a value resolved from its own column.
func classifyGeneric(s *contactState, _ config.Config) {
	generic := strings.TrimSpace(s.Generic)
	if generic == "" {
		return
	}
	switch {
	case strings.Contains(generic, "@") && s.Email == "":
		s.Email = generic
	case util.ContainsDigit(generic) && s.Mobile == "":
		s.Mobile = generic
	case s.Name == "":
		s.Name = generic
	}
}

// swapEmailInPhone corrects the common data-entry slip of an email address
// typed into the phone column. The email column, when populated, wins.
func swapEmailInPhone(s *contactState, cfg config.Config) {
	if !strings.Contains(s.Mobile, "@") {
		return
	}
	if s.Email == "" {
		s.Email = s.Mobile
	}
	s.Mobile = cfg.PhonePlaceholder
}

// synthesizeAccessEmail guarantees a syntactically valid, per-row-unique
// address when no email survived resolution: sequential row suffix plus a
// short random component under the configured placeholder domain.
func synthesizeAccessEmail(s *contactState, cfg config.Config) {
	if s.Email != "" {
		return
	}
	s.Email = fmt.Sprintf("usina-%d-%s@%s", s.Seq, randomSuffix(), cfg.PlaceholderMailDomain)
}

func placeholderPhone(s *contactState, cfg config.Config) {
	if s.Mobile == "" {
		s.Mobile = cfg.PhonePlaceholder
	}
}

// ResolveContacts pulls the five contact inputs out of the row independently
// and runs the rule pipeline. seq is the zero-based row position in the
// batch, used for synthesized-address uniqueness.
func ResolveContacts(idx *HeaderIndex, lex lexicon.Lexicon, cfg config.Config, seq int) Contacts {
	state := contactState{Seq: seq}
	state.Name, _ = idx.Resolve(lex.Aliases(lexicon.FieldResponsibleName))
	state.Mobile, _ = idx.Resolve(lex.Aliases(lexicon.FieldResponsiblePhone))
	state.Landline, _ = idx.Resolve(lex.Aliases(lexicon.FieldLandline))
	state.Email, _ = idx.Resolve(lex.Aliases(lexicon.FieldAccessEmail))
	state.Generic, _ = idx.Resolve(lex.Aliases(lexicon.FieldGenericContact))

	for _, rule := range contactRules {
		rule.apply(&state, cfg)
	}

	name := state.Name
	if strings.TrimSpace(name) == "" {
		name = cfg.DefaultResponsible
	}

	return Contacts{
		ResponsibleName:  name,
		ResponsiblePhone: state.Mobile,
		Landline:         state.Landline,
		AccessEmail:      state.Email,
	}
}

func randomSuffix() string {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "0000"
	}
	return hex.EncodeToString(b[:])
}
