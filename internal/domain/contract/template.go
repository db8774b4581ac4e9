package contract

import (
	"regexp"
	"strings"
)

var rePlaceholder = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Render substitutes {{name}} placeholders in content. Unknown placeholders are left untouched.
func Render(content string, vars map[string]string) string {
	return rePlaceholder.ReplaceAllStringFunc(content, func(m string) string {
		name := rePlaceholder.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

// Placeholders lists the distinct variable names used in content, in order of first use.
func Placeholders(content string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range rePlaceholder.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// DefaultTemplate is the standard loan agreement seeded when no template exists.
func DefaultTemplate() Template {
	return Template{
		ID:          DefaultTemplateID,
		Name:        "Contrato de Empréstimo Padrão",
		Description: "Template padrão para contratos de empréstimo",
		IsActive:    true,
		Variables:   []string{"clientName", "clientCpf", "clientPhone", "loanAmount", "loanAmountText", "totalInstallments", "dailyPenalty", "loanDate", "contractDate"},
		Content:     strings.TrimSpace(defaultContent),
	}
}

const defaultContent = `
CONTRATO DE EMPRÉSTIMO

Pelo presente instrumento particular, as partes abaixo qualificadas:

CREDOR: CredConecta Empréstimos
CNPJ: 00.000.000/0001-00
Endereço: Rua das Finanças, 123 - Centro

DEVEDOR: {{clientName}}
CPF: {{clientCpf}}
Telefone: {{clientPhone}}

Têm entre si justo e acordado o seguinte:

CLÁUSULA 1ª - DO OBJETO
O CREDOR empresta ao DEVEDOR a quantia de R$ {{loanAmount}} ({{loanAmountText}}).

CLÁUSULA 2ª - DO PAGAMENTO
O pagamento será efetuado em {{totalInstallments}} parcelas, com vencimento a partir de {{loanDate}}.

CLÁUSULA 3ª - DA MORA
Em caso de atraso no pagamento, será aplicada multa de R$ {{dailyPenalty}} por dia de atraso.

CLÁUSULA 4ª - DO FORO
Fica eleito o foro da comarca local para dirimir quaisquer questões oriundas do presente contrato.

Data: {{contractDate}}

_________________________        _________________________
    Assinatura do Credor              Assinatura do Devedor

_________________________
   Assinatura da Testemunha
`
