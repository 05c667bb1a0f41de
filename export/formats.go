package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo describes how a format is served and stored.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string // includes the leading dot
	Description string
}

// FormatRegistry lists every format the exporter can write.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle with prefixed names, for reading and diffing",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "One absolute triple per line, for bulk loaders",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "A single @graph document with a prefix @context",
	},
}

// GetFormatInfo looks a format up in FormatRegistry.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name. "ttl", "nt" and "json-ld" are accepted
// as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	case "jsonld", "json-ld":
		return FormatJSONLD, nil
	}
	return "", fmt.Errorf("unsupported format: %s", name)
}

// ParseFormats resolves a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	formats := make([]Format, 0, len(names))
	seen := make(map[Format]bool, len(names))
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

var localName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// compactIRI rewrites iri as prefix:local when a namespace matches and the
// remainder is a plain local name. ok is false otherwise.
func compactIRI(prefixes map[string]string, iri string) (string, bool) {
	best, bestNS := "", ""
	for prefix, ns := range prefixes {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return "", false
	}
	local := strings.TrimPrefix(iri, bestNS)
	if !localName.MatchString(local) {
		return "", false
	}
	return best + ":" + local, true
}

// sortedPrefixes returns the prefix names in lexical order.
func sortedPrefixes(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a new Turtle writer with the given prefixes.
func NewTurtleWriter(prefixes map[string]string) *TurtleWriter {
	p := make(map[string]string, len(prefixes))
	for k, v := range prefixes {
		p[k] = v
	}
	return &TurtleWriter{prefixes: p}
}

// SetPrefix registers or replaces a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WritePrefixes writes one @prefix line per namespace, sorted by prefix.
func (w *TurtleWriter) WritePrefixes() {
	for _, prefix := range sortedPrefixes(w.prefixes) {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	w.sb.WriteString("\n")
}

// WriteResource writes one subject block with its types and predicates.
func (w *TurtleWriter) WriteResource(r Resource) {
	fmt.Fprintf(&w.sb, "%s\n", w.iri(r.IRI))

	if len(r.Types) > 0 {
		types := make([]string, len(r.Types))
		for i, t := range r.Types {
			types[i] = w.iri(t)
		}
		fmt.Fprintf(&w.sb, "    a %s%s\n", strings.Join(types, ", "), terminator(len(r.Triples) == 0))
	}

	for i, triple := range r.Triples {
		fmt.Fprintf(&w.sb, "    %s %s%s\n", w.iri(triple.Predicate), w.formatObject(triple.Object), terminator(i == len(r.Triples)-1))
	}
}

// WriteBlank separates resources.
func (w *TurtleWriter) WriteBlank() {
	w.sb.WriteString("\n")
}

// String returns the document written so far.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

func (w *TurtleWriter) iri(iri string) string {
	if c, ok := compactIRI(w.prefixes, iri); ok {
		return c
	}
	return "<" + iri + ">"
}

// formatObject formats an object value for Turtle output.
func (w *TurtleWriter) formatObject(obj any) string {
	switch v := obj.(type) {
	case IRI:
		return w.iri(string(v))
	case LangString:
		return fmt.Sprintf("\"%s\"@%s", escapeString(v.Value), v.Lang)
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^xsd:integer", v)
	case bool:
		return fmt.Sprintf("\"%t\"^^xsd:boolean", v)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

func terminator(last bool) string {
	if last {
		return " ."
	}
	return " ;"
}

// NTriplesWriter accumulates N-Triples lines.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes one line. object follows the same rules as Triple.Object.
func (w *NTriplesWriter) WriteTriple(subject, predicate string, object any) {
	fmt.Fprintf(&w.sb, "<%s> <%s> %s .\n", subject, predicate, formatObjectNTriples(object))
}

// WriteTypeTriple writes an rdf:type line.
func (w *NTriplesWriter) WriteTypeTriple(subject, typeIRI string) {
	w.WriteTriple(subject, rdfType, IRI(typeIRI))
}

// WriteResource writes every triple of a resource, types first.
func (w *NTriplesWriter) WriteResource(r Resource) {
	for _, t := range r.Types {
		w.WriteTypeTriple(r.IRI, t)
	}
	for _, triple := range r.Triples {
		w.WriteTriple(r.IRI, triple.Predicate, triple.Object)
	}
}

// String returns every line written so far.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

// formatObjectNTriples formats an object value for N-Triples output.
func formatObjectNTriples(obj any) string {
	switch v := obj.(type) {
	case IRI:
		return fmt.Sprintf("<%s>", string(v))
	case LangString:
		return fmt.Sprintf("\"%s\"@%s", escapeString(v.Value), v.Lang)
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^<http://www.w3.org/2001/XMLSchema#integer>", v)
	case bool:
		return fmt.Sprintf("\"%t\"^^<http://www.w3.org/2001/XMLSchema#boolean>", v)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// JSONLDDocument is a compacted JSON-LD document with one @graph.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode is one subject in the @graph. Properties are flattened into the
// node object when marshaled.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON flattens Properties next to @id and @type.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter builds a JSONLDDocument node by node.
type JSONLDWriter struct {
	prefixes map[string]string
	doc      JSONLDDocument
}

// NewJSONLDWriter creates a new JSON-LD writer.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{
		prefixes: make(map[string]string),
		doc: JSONLDDocument{
			Context: make(map[string]any),
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// SetContext adds prefixes to the @context and uses them to compact keys.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		w.prefixes[k] = v
		w.doc.Context[k] = v
	}
}

// AddNode appends a node with already compacted property keys.
func (w *JSONLDWriter) AddNode(id string, types []string, properties map[string]any) {
	node := JSONLDNode{
		ID:         id,
		Type:       types,
		Properties: properties,
	}
	w.doc.Graph = append(w.doc.Graph, node)
}

// AddResource adds a resource as a node. Repeated predicates become arrays
// in triple order.
func (w *JSONLDWriter) AddResource(r Resource) {
	props := make(map[string]any, len(r.Triples))
	for _, triple := range r.Triples {
		key := triple.Predicate
		if c, ok := compactIRI(w.prefixes, key); ok {
			key = c
		}
		val := formatObjectJSONLD(triple.Object)
		switch existing := props[key].(type) {
		case nil:
			props[key] = val
		case []any:
			props[key] = append(existing, val)
		default:
			props[key] = []any{existing, val}
		}
	}
	w.AddNode(r.IRI, r.Types, props)
}

// Bytes returns the indented JSON-LD document.
func (w *JSONLDWriter) Bytes() ([]byte, error) {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json-ld: %w", err)
	}
	return append(data, '\n'), nil
}

// formatObjectJSONLD formats an object value for JSON-LD output.
func formatObjectJSONLD(obj any) any {
	switch v := obj.(type) {
	case IRI:
		return map[string]string{"@id": string(v)}
	case LangString:
		return map[string]string{"@value": v.Value, "@language": v.Lang}
	case string, int, int32, int64, bool:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
