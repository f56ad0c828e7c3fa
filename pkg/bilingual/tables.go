package bilingual

import "golang.org/x/text/language"

// topicPlaceholder is replaced by the topic display name in phrase tables.
const topicPlaceholder = "{topic}"

// Phrase is one prose substitution. From may contain {topic}.
type Phrase struct {
	From string
	To   string
}

// Table holds the translation data for one secondary locale.
type Table struct {
	Tag language.Tag
	// Headings maps lower-cased canonical headings to the locale heading.
	Headings map[string]string
	// Phrases are applied to prose, longest first.
	Phrases []Phrase
	// Glossary maps lower-cased topic words to the locale term.
	Glossary map[string]string
	// JoinWords joins translated topic words.
	JoinWords string
}

var korean = Table{
	Tag: language.Korean,
	Headings: map[string]string{
		"project structure":          "프로젝트 구조",
		"core concepts":              "핵심 개념",
		"tips & tricks":              "팁과 요령",
		"best practices":             "모범 사례",
		"common mistakes":            "흔한 실수",
		"advanced topics":            "고급 주제",
		"testing strategies":         "테스트 전략",
		"performance considerations": "성능 고려사항",
		"security considerations":    "보안 고려사항",
		"related topics":             "관련 주제",
		"introduction":               "소개",
		"overview":                   "개요",
		"summary":                    "요약",
		"examples":                   "예제",
		"exercises":                  "연습 문제",
	},
	Phrases: []Phrase{
		{"The key ideas behind {topic}:", "{topic}의 핵심 아이디어:"},
		{"Practical tips for working with {topic}:", "{topic}를 다룰 때 유용한 팁:"},
		{"Once the basics of {topic} are solid, explore:", "{topic}의 기초를 익혔다면 다음을 살펴보세요:"},
		{"A typical layout", "일반적인 구조"},
		{"**Why it happens:**", "**발생 원인:**"},
		{"**Why:**", "**이유:**"},
		{"**Good:**", "**좋은 예:**"},
		{"**Avoid:**", "**피해야 할 예:**"},
		{"**Incorrect:**", "**잘못된 예:**"},
		{"**Correct:**", "**올바른 예:**"},
		{"**Solution:**", "**해결책:**"},
	},
	Glossary: map[string]string{
		"routing":     "라우팅",
		"router":      "라우터",
		"routes":      "라우트",
		"controller":  "컨트롤러",
		"controllers": "컨트롤러",
		"middleware":  "미들웨어",
		"organizing":  "구성",
		"testing":     "테스트",
		"error":       "오류",
		"handling":    "처리",
		"validation":  "검증",
		"basics":      "기초",
	},
	JoinWords: " ",
}

var brazilianPortuguese = Table{
	Tag: language.BrazilianPortuguese,
	Headings: map[string]string{
		"project structure":          "Estrutura do Projeto",
		"core concepts":              "Conceitos Principais",
		"tips & tricks":              "Dicas e Truques",
		"best practices":             "Boas Práticas",
		"common mistakes":            "Erros Comuns",
		"advanced topics":            "Tópicos Avançados",
		"testing strategies":         "Estratégias de Teste",
		"performance considerations": "Considerações de Desempenho",
		"security considerations":    "Considerações de Segurança",
		"related topics":             "Tópicos Relacionados",
		"introduction":               "Introdução",
		"overview":                   "Visão Geral",
		"summary":                    "Resumo",
		"examples":                   "Exemplos",
		"exercises":                  "Exercícios",
	},
	Phrases: []Phrase{
		{"The key ideas behind {topic}:", "As ideias principais de {topic}:"},
		{"Practical tips for working with {topic}:", "Dicas práticas para trabalhar com {topic}:"},
		{"Once the basics of {topic} are solid, explore:", "Depois de dominar o básico de {topic}, explore:"},
		{"A typical layout", "Uma estrutura típica"},
		{"**Why it happens:**", "**Por que acontece:**"},
		{"**Why:**", "**Por quê:**"},
		{"**Good:**", "**Bom:**"},
		{"**Avoid:**", "**Evite:**"},
		{"**Incorrect:**", "**Incorreto:**"},
		{"**Correct:**", "**Correto:**"},
		{"**Solution:**", "**Solução:**"},
	},
	Glossary: map[string]string{
		"routing":     "Roteamento",
		"router":      "Roteador",
		"routes":      "Rotas",
		"controller":  "Controlador",
		"controllers": "Controladores",
		"organizing":  "Organizando",
		"testing":     "Testes",
		"error":       "Erros",
		"handling":    "Tratamento",
		"validation":  "Validação",
		"basics":      "Fundamentos",
	},
	JoinWords: " ",
}

// Tables returns the built-in locale tables.
func Tables() []Table {
	return []Table{korean, brazilianPortuguese}
}
