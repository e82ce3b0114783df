// Package lexicon holds the alias table mapping each canonical generator
// field to the ordered list of header spellings partners actually use.
// Supporting a new spelling is a one-line append here; the resolution
// algorithm never changes for it.
package lexicon

type Field string

const (
	FieldName             Field = "name"
	FieldCompany          Field = "company"
	FieldRegion           Field = "region"
	FieldCity             Field = "city"
	FieldWebsite          Field = "website"
	FieldCapacity         Field = "capacity"
	FieldAnnualRevenue    Field = "annualRevenue"
	FieldDiscount         Field = "discount"
	FieldCommission       Field = "commission"
	FieldResponsibleName  Field = "responsibleName"
	FieldResponsiblePhone Field = "responsiblePhone"
	FieldLandline         Field = "landline"
	FieldAccessEmail      Field = "accessEmail"
	FieldGenericContact   Field = "genericContact"
)

// Lexicon maps a canonical field to its aliases, most specific first: the
// resolver walks the list in order, so an earlier alias always beats a later
// one. Treated as immutable after construction; share freely.
type Lexicon map[Field][]string

func (l Lexicon) Aliases(field Field) []string {
	return l[field]
}

// Default is the Brazilian-market lexicon: Portuguese spellings first (with
// and without the accents the normalizer strips), English fallbacks last.
func Default() Lexicon {
	return Lexicon{
		FieldName: {
			"NOME DA USINA", "NOME USINA", "USINA", "NOME", "PLANT NAME", "PLANT", "NAME",
		},
		FieldCompany: {
			"RAZAO SOCIAL", "EMPRESA", "COMPANHIA", "COMPANY",
		},
		FieldRegion: {
			"REGIAO", "ESTADO", "UF", "STATE", "REGION",
		},
		FieldCity: {
			"CIDADE", "MUNICIPIO", "CITY",
		},
		FieldWebsite: {
			"SITE", "WEBSITE", "PAGINA", "URL",
		},
		FieldCapacity: {
			"DEMANDA DISPONIVEL", "CAPACIDADE", "POTENCIA", "KWP", "CAPACITY", "POWER",
		},
		FieldAnnualRevenue: {
			"FATURAMENTO ANUAL", "FATURAMENTO", "RECEITA ANUAL", "RECEITA",
			"ANNUAL REVENUE", "REVENUE",
		},
		FieldDiscount: {
			"DESCONTO", "DISCOUNT",
		},
		FieldCommission: {
			"COMISSAO", "COMMISSION",
		},
		FieldResponsibleName: {
			"NOME DO RESPONSAVEL", "RESPONSAVEL", "RESPONSIBLE", "OWNER",
		},
		FieldResponsiblePhone: {
			"TELEFONE CELULAR", "CELULAR", "WHATSAPP", "TELEFONE", "MOBILE", "PHONE",
		},
		FieldLandline: {
			"TELEFONE FIXO", "FIXO", "LANDLINE",
		},
		FieldAccessEmail: {
			"EMAIL DE ACESSO", "E MAIL", "EMAIL", "MAIL",
		},
		FieldGenericContact: {
			"CONTATO", "CONTACT",
		},
	}
}
