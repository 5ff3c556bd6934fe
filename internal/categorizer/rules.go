package categorizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule maps a keyword phrase to a category label. Rules are evaluated in
// slice order and the first match wins, so more specific phrases must come
// before the generic ones they contain.
type Rule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// DefaultRules returns the built-in keyword table. Order is significant.
func DefaultRules() []Rule {
	return []Rule{
		// Folha de pagamento
		{"folha de pagamento", "Folha de Pagamento"},
		{"despesas com folha de pagamento", "Folha de Pagamento"},
		{"inss", "Folha de Pagamento"},
		{"patronal", "Folha de Pagamento"},

		// Locação de imóveis
		{"locação de imóvel", "Locação de Imóveis"},
		{"locação de imóveis", "Locação de Imóveis"},

		// Manutenção de veículos
		{"manutenção de veículos", "Manutenção de Veículos"},
		{"reparo de veículos", "Manutenção de Veículos"},
		{"conserto de veículos", "Manutenção de Veículos"},

		// Manutenção de máquinas
		{"manutenção de máquina", "Manutenção de Máquinas"},
		{"reparo de máquinas", "Manutenção de Máquinas"},
		{"conserto de máquinas", "Manutenção de Máquinas"},

		// Sistemas e software
		{"software", "Sistemas"},
		{"hospedagem de site", "Sistemas"},
		{"manutenção de sistemas", "Sistemas"},
		{"desenvolvimento de aplicativo", "Sistemas"},
		{"webservice", "Sistemas"},
		{"desenvolvimento de sistemas", "Sistemas"},
		{"sistema", "Sistemas"},

		// Serviços de engenharia
		{"engenharia", "Prestação de Serviços de Engenharia"},
		{"obras", "Prestação de Serviços de Engenharia"},
		{"projetos de engenharia", "Prestação de Serviços de Engenharia"},

		// Serviços de limpeza
		{"limpeza", "Serviços de Limpeza"},
		{"conservação", "Serviços de Limpeza"},
		{"higienização", "Serviços de Limpeza"},

		// Serviços de segurança
		{"segurança", "Serviços de Segurança"},
		{"vigilância", "Serviços de Segurança"},
		{"monitoramento", "Serviços de Segurança"},

		// Publicidade
		{"publicidade", "Publicidade e Propaganda"},
		{"propaganda", "Publicidade e Propaganda"},
		{"divulgação", "Publicidade e Propaganda"},

		// Combustíveis
		{"combustível", "Combustível"},
		{"abastecimento", "Combustível"},
		{"diesel", "Combustível"},
		{"gasolina", "Combustível"},

		// Serviços de correios
		{"correios", "Serviços de Correios"},
		{"envio postal", "Serviços de Correios"},
		{"remessa postal", "Serviços de Correios"},

		// Treinamento e capacitação
		{"treinamento", "Capacitação e Treinamento"},
		{"capacitação", "Capacitação e Treinamento"},
		{"curso", "Capacitação e Treinamento"},

		// Organização de eventos
		{"eventos", "Organização de Eventos"},
		{"organização de eventos", "Organização de Eventos"},
		{"cerimonial", "Organização de Eventos"},

		// Consultoria
		{"consultoria", "Prestação de Serviços de Consultoria"},
		{"assessoria", "Prestação de Serviços de Consultoria"},
		{"orientação técnica", "Prestação de Serviços de Consultoria"},

		// Equipamentos e materiais
		{"equipamentos", "Aquisição de Equipamentos"},
		{"compra de equipamentos", "Aquisição de Equipamentos"},
		{"materiais", "Aquisição de Materiais"},

		// Fiscalização de obras
		{"fiscalização de serviços", "Fiscalização de Obras"},
		{"ART pavimentação", "Fiscalização de Obras"},
		{"ART instalação", "Fiscalização de Obras"},
		{"serviços de pavimentação", "Fiscalização de Obras"},
		{"instalação de pele de vidro", "Fiscalização de Obras"},

		// Transporte
		{"transporte", "Serviços de Transporte"},
		{"locação de veículos", "Serviços de Transporte"},
		{"fretamento", "Serviços de Transporte"},

		// Serviços administrativos
		{"administração", "Serviços Administrativos"},
		{"gestão administrativa", "Serviços Administrativos"},
		{"apoio administrativo", "Serviços Administrativos"},

		// Despesas com água
		{"fornecimento de água", "Despesas com Água"},
		{"água", "Despesas com Água"},

		// Despesas com energia elétrica
		{"energia elétrica", "Despesas com Energia Elétrica"},
		{"fornecimento de energia", "Despesas com Energia Elétrica"},
		{"luz", "Despesas com Energia Elétrica"},

		// Serviços de internet
		{"banda larga", "Serviços de Internet"},
	}
}

// LoadRules reads an ordered rule list from a YAML file. The file is a plain
// sequence of {keyword, category} pairs so rule order survives round-trips.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	for i, rule := range rules {
		if rule.Keyword == "" || rule.Category == "" {
			return nil, fmt.Errorf("rules file %s: entry %d is missing keyword or category", path, i)
		}
	}

	return rules, nil
}
