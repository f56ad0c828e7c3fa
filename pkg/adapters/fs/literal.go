package fs

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/aretw0/lessonkit/pkg/core"
)

// Property keys of the lesson object literal.
const (
	keyID               = "id"
	keyTitle            = "title"
	keyTitleSecondary   = "titleSecondary"
	keyDifficulty       = "difficulty"
	keyEstimatedTime    = "estimatedTime"
	keyContentPrimary   = "contentPrimary"
	keyContentSecondary = "contentSecondary"
	keyHasVisualization = "hasVisualization"
	keyHasExercise      = "hasExercise"

	// keyContent is accepted as an alias of contentPrimary.
	keyContent = "content"
)

// Marker names reported by Validate.
const (
	MarkerExport        = "export"
	MarkerDefaultExport = "default export"
	MarkerID            = "id"
	MarkerTitle         = "title"
	MarkerContent       = "content"
	MarkerFrontmatter   = "frontmatter"
)

// ExportSuffix is appended to the camel-cased id to form the export name.
const ExportSuffix = "Lesson"

// LiteralSerializer reads and writes lessons stored as one exported object
// literal per TypeScript or JavaScript file.
type LiteralSerializer struct {
	// LocaleSuffix names locale specific keys accepted as aliases, e.g. "Ko"
	// accepts titleKo and contentKo.
	LocaleSuffix string
}

// NewLiteralSerializer creates a literal serializer. localeSuffix may be empty.
func NewLiteralSerializer(localeSuffix string) *LiteralSerializer {
	return &LiteralSerializer{LocaleSuffix: localeSuffix}
}

// property is one pair of the object literal.
type property struct {
	key   string
	kind  string // tree-sitter node type of the value
	value string // decoded value for strings, literal text otherwise
	raw   string
}

// literal is what a scan of a source file found.
type literal struct {
	named      bool // export const X = {...}
	defaulted  bool // export default ...
	found      bool
	props      []property
	exportName string
	// dynamic names the first member that cannot be rewritten losslessly.
	dynamic string
}

func (l literal) get(keys ...string) (property, bool) {
	for _, k := range keys {
		for _, p := range l.props {
			if p.key == k {
				return p, true
			}
		}
	}
	return property{}, false
}

func grammar(name string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js", ".mjs", ".cjs", ".jsx":
		return javascript.GetLanguage()
	default:
		return typescript.GetLanguage()
	}
}

// scan parses src and locates the exported object literal.
func scan(name string, src []byte) (literal, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(grammar(name))
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return literal{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	consts := map[string]*sitter.Node{}
	var (
		lit         literal
		object      *sitter.Node
		defaultName string
	)

	collect := func(decl *sitter.Node, exported bool) {
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			d := decl.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			nameNode, value := d.ChildByFieldName("name"), unwrap(d.ChildByFieldName("value"))
			if nameNode == nil || value == nil || value.Type() != "object" {
				continue
			}
			ident := nameNode.Content(src)
			consts[ident] = value
			if exported && object == nil {
				object, lit.exportName, lit.named = value, ident, true
			}
		}
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "lexical_declaration", "variable_declaration":
			collect(node, false)
		case "export_statement":
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				switch decl.Type() {
				case "lexical_declaration", "variable_declaration":
					collect(decl, true)
				}
			}
			if !isDefaultExport(node) {
				continue
			}
			lit.defaulted = true
			value := unwrap(node.ChildByFieldName("value"))
			if value == nil {
				continue
			}
			switch value.Type() {
			case "object":
				if object == nil {
					object = value
				}
			case "identifier":
				defaultName = value.Content(src)
			}
		}
	}

	if object == nil && defaultName != "" {
		if obj, ok := consts[defaultName]; ok {
			object, lit.exportName = obj, defaultName
		}
	}
	if object == nil {
		return lit, nil
	}

	lit.found = true
	for i := 0; i < int(object.NamedChildCount()); i++ {
		pair := object.NamedChild(i)
		switch pair.Type() {
		case "pair":
		case "comment":
			continue
		default:
			lit.dynamic = pair.Type() + " " + strconv.Quote(pair.Content(src))
			return lit, nil
		}
		keyNode, valueNode := pair.ChildByFieldName("key"), pair.ChildByFieldName("value")
		if keyNode == nil || valueNode == nil {
			continue
		}
		if keyNode.Type() == "computed_property_name" {
			lit.dynamic = "computed key " + keyNode.Content(src)
			return lit, nil
		}
		if sub := substitution(valueNode); sub != nil {
			lit.dynamic = "template substitution " + sub.Content(src)
			return lit, nil
		}
		lit.props = append(lit.props, readProperty(keyNode, valueNode, src))
	}
	return lit, nil
}

// substitution returns the first ${...} of a template string value.
func substitution(n *sitter.Node) *sitter.Node {
	if n.Type() != "template_string" {
		return nil
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "template_substitution" {
			return c
		}
	}
	return nil
}

func isDefaultExport(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "default" {
			return true
		}
	}
	return false
}

// unwrap strips wrappers such as "{...} as Lesson", "{...} satisfies Lesson"
// and parentheses.
func unwrap(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "as_expression", "satisfies_expression", "parenthesized_expression", "non_null_expression":
			if n.NamedChildCount() == 0 {
				return n
			}
			n = n.NamedChild(0)
		default:
			return n
		}
	}
	return nil
}

func readProperty(keyNode, valueNode *sitter.Node, src []byte) property {
	key := keyNode.Content(src)
	if keyNode.Type() == "string" {
		key = decodeQuoted(key)
	}
	raw := valueNode.Content(src)
	p := property{key: key, kind: valueNode.Type(), value: raw, raw: raw}
	switch p.kind {
	case "string":
		p.value = decodeQuoted(raw)
	case "template_string":
		p.value = unescapeJS(raw[1 : len(raw)-1])
	}
	return p
}

// Parse extracts a Document from a literal source file.
func (s *LiteralSerializer) Parse(name string, data []byte) (core.Document, error) {
	lit, err := scan(name, data)
	if err != nil {
		return core.Document{}, core.NewParseError(name, "cannot parse source", err)
	}
	if !lit.found {
		return core.Document{}, core.NewParseError(name, "no exported object literal", nil)
	}
	if lit.dynamic != "" {
		return core.Document{}, core.NewParseError(name, "non-static object literal", fmt.Errorf("unsupported member: %s", lit.dynamic))
	}

	text := func(keys ...string) string {
		if p, ok := lit.get(keys...); ok && isText(p.kind) {
			return p.value
		}
		return ""
	}
	flag := func(key string) bool {
		p, ok := lit.get(key)
		return ok && p.kind == "true"
	}

	doc := core.Document{
		ID:               text(keyID),
		Title:            text(keyTitle),
		TitleSecondary:   text(keyTitleSecondary, s.localeKey(keyTitle)),
		Difficulty:       core.Difficulty(text(keyDifficulty)),
		EstimatedTime:    text(keyEstimatedTime),
		ContentPrimary:   text(keyContentPrimary, keyContent),
		ContentSecondary: text(keyContentSecondary, s.localeKey(keyContent)),
		HasVisualization: flag(keyHasVisualization),
		HasExercise:      flag(keyHasExercise),
		Source:           name,
	}
	if p, ok := lit.get(keyEstimatedTime); ok && p.kind == "number" {
		doc.EstimatedTime = core.FormatMinutes(core.ParseMinutes(p.value))
	}

	known := s.knownKeys()
	for _, p := range lit.props {
		if known[p.key] {
			continue
		}
		if doc.Extra == nil {
			doc.Extra = map[string]any{}
		}
		doc.Extra[p.key] = core.RawExpr(p.raw)
	}

	if strings.TrimSpace(doc.ID) == "" {
		return core.Document{}, core.NewParseError(name, "missing id", nil)
	}
	if strings.TrimSpace(doc.ContentPrimary) == "" {
		return core.Document{}, core.NewParseError(name, "missing contentPrimary", nil)
	}
	return doc, nil
}

func isText(kind string) bool {
	return kind == "string" || kind == "template_string"
}

func (s *LiteralSerializer) localeKey(base string) string {
	if s.LocaleSuffix == "" {
		return base + "Secondary"
	}
	return base + s.LocaleSuffix
}

func (s *LiteralSerializer) knownKeys() map[string]bool {
	return map[string]bool{
		keyID: true, keyTitle: true, keyTitleSecondary: true, keyDifficulty: true,
		keyEstimatedTime: true, keyContentPrimary: true, keyContentSecondary: true,
		keyHasVisualization: true, keyHasExercise: true, keyContent: true,
		s.localeKey(keyTitle): true, s.localeKey(keyContent): true,
	}
}

// Serialize renders the document as an exported const plus a default export.
func (s *LiteralSerializer) Serialize(doc core.Document) ([]byte, error) {
	if strings.TrimSpace(doc.ID) == "" {
		return nil, fmt.Errorf("%w: id is empty", core.ErrInvalidDocument)
	}
	ident := ExportIdentifier(doc.ID)
	difficulty := doc.Difficulty
	if difficulty == "" {
		difficulty = core.DifficultyMedium
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "export const %s = {\n", ident)
	field := func(key, value string) {
		fmt.Fprintf(&buf, "  %s: %s,\n", key, value)
	}
	field(keyID, quote(doc.ID))
	field(keyTitle, quote(doc.Title))
	field(keyTitleSecondary, quote(doc.TitleSecondary))
	field(keyDifficulty, quote(string(difficulty)))
	field(keyEstimatedTime, quote(doc.EstimatedTime))
	field(keyHasVisualization, strconv.FormatBool(doc.HasVisualization))
	field(keyHasExercise, strconv.FormatBool(doc.HasExercise))
	field(keyContentPrimary, templateLiteral(doc.ContentPrimary))
	field(keyContentSecondary, templateLiteral(doc.ContentSecondary))

	keys := make([]string, 0, len(doc.Extra))
	for k := range doc.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		field(propertyKey(k), expression(doc.Extra[k]))
	}
	buf.WriteString("};\n\n")
	fmt.Fprintf(&buf, "export default %s;\n", ident)
	return buf.Bytes(), nil
}

// Validate reports which required markers are missing from a literal file.
func (s *LiteralSerializer) Validate(data []byte) []string {
	lit, err := scan("validate.ts", data)
	if err != nil {
		return []string{MarkerExport, MarkerDefaultExport, MarkerID, MarkerTitle, MarkerContent}
	}
	var missing []string
	if !lit.named {
		missing = append(missing, MarkerExport)
	}
	if !lit.defaulted {
		missing = append(missing, MarkerDefaultExport)
	}
	nonEmpty := func(keys ...string) bool {
		p, ok := lit.get(keys...)
		return ok && isText(p.kind) && strings.TrimSpace(p.value) != ""
	}
	if !nonEmpty(keyID) {
		missing = append(missing, MarkerID)
	}
	if !nonEmpty(keyTitle) {
		missing = append(missing, MarkerTitle)
	}
	if _, ok := lit.get(keyContentPrimary, keyContent); !ok {
		missing = append(missing, MarkerContent)
	}
	return missing
}

// ExportIdentifier derives the export name from a kebab-case id:
// "express-routing" becomes "expressRoutingLesson".
func ExportIdentifier(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lowerFirst(w))
			continue
		}
		b.WriteString(upperFirst(w))
	}
	name := b.String()
	if name == "" {
		return strings.ToLower(ExportSuffix)
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
		name = "_" + name
	}
	return name + ExportSuffix
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// propertyKey quotes keys that are not plain identifiers.
func propertyKey(k string) string {
	for i, r := range k {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return quote(k)
	}
	if k == "" {
		return quote(k)
	}
	return k
}

// expression renders an extra value. Raw expressions are kept verbatim.
func expression(v any) string {
	switch x := v.(type) {
	case core.RawExpr:
		return string(x)
	case string:
		return quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return "null"
	default:
		return quote(fmt.Sprint(x))
	}
}
