package pipeline

import (
	"strings"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/config"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/lexicon"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/util"
)

// Assembler turns raw spreadsheet rows into canonical generator records. It
// holds only read-only configuration, so one assembler is safe to share.
type Assembler struct {
	cfg config.Config
	lex lexicon.Lexicon
}

func NewAssembler(cfg config.Config, lex lexicon.Lexicon) *Assembler {
	return &Assembler{cfg: cfg, lex: lex}
}

// BuildRecord assembles one fully-defaulted record from one row. seq is the
// zero-based batch position, used only for synthesized access emails. Rows
// are never rejected: a row that resolves nothing produces a record saturated
// with defaults.
func (a *Assembler) BuildRecord(row *internal.RawRow, seq int) internal.GeneratorRecord {
	idx := BuildHeaderIndex(row)

	name := a.resolveOr(idx, lexicon.FieldName, a.cfg.DefaultPlantName)
	company := a.resolveOr(idx, lexicon.FieldCompany, name)

	capacityRaw, _ := idx.Resolve(a.lex.Aliases(lexicon.FieldCapacity))
	revenueRaw, _ := idx.Resolve(a.lex.Aliases(lexicon.FieldAnnualRevenue))
	discountRaw, _ := idx.Resolve(a.lex.Aliases(lexicon.FieldDiscount))
	commissionRaw, _ := idx.Resolve(a.lex.Aliases(lexicon.FieldCommission))

	website, _ := idx.Resolve(a.lex.Aliases(lexicon.FieldWebsite))
	contacts := ResolveContacts(idx, a.lex, a.cfg, seq)

	return internal.GeneratorRecord{
		Name:             name,
		Company:          company,
		Type:             internal.PlantTypeSolar,
		Website:          website,
		Region:           a.resolveOr(idx, lexicon.FieldRegion, a.cfg.DefaultRegion),
		City:             a.resolveOr(idx, lexicon.FieldCity, a.cfg.DefaultCity),
		Capacity:         util.ParseCapacity(capacityRaw),
		AnnualRevenue:    util.ParseCurrency(revenueRaw),
		Discount:         util.ParsePercent(discountRaw, a.cfg.DefaultDiscount),
		Commission:       util.ParsePercent(commissionRaw, a.cfg.DefaultCommission),
		ResponsibleName:  contacts.ResponsibleName,
		ResponsiblePhone: contacts.ResponsiblePhone,
		Landline:         contacts.Landline,
		AccessEmail:      contacts.AccessEmail,
		Status:           internal.StatusPending,
		Rating:           a.cfg.DefaultRating,
		EstimatedSavings: 0,
	}
}

// ProcessBatch maps every row to exactly one record, in input order. Rows are
// independent of each other; a malformed row degrades to defaults instead of
// aborting the batch.
func (a *Assembler) ProcessBatch(rows []*internal.RawRow) []internal.GeneratorRecord {
	out := make([]internal.GeneratorRecord, 0, len(rows))
	for i, row := range rows {
		out = append(out, a.BuildRecord(row, i))
	}
	return out
}

func (a *Assembler) resolveOr(idx *HeaderIndex, field lexicon.Field, fallback string) string {
	value, ok := idx.Resolve(a.lex.Aliases(field))
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
