package convert

import (
	"strings"

	"github.com/teranos/standoff/annotation"
	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
	"github.com/teranos/standoff/normdb"
	"github.com/teranos/standoff/resolve"
	"github.com/teranos/standoff/turtle"
)

// emit appends one record's statements. Nothing is written when it fails.
func (cv *conversion) emit(rec annotation.Record) error {
	var b strings.Builder
	var err error

	switch r := rec.(type) {
	case *annotation.TextSpan:
		err = cv.emitTextSpan(&b, r)
	case *annotation.Event:
		err = cv.emitEvent(&b, r)
	case *annotation.Relation:
		err = cv.emitRelation(&b, r)
	case *annotation.Normalization:
		err = cv.emitNormalization(&b, r)
	case *annotation.Attribute:
		err = cv.emitAttribute(&b, r)
	default:
		err = errors.NewMalformedRecordError("line %d: unsupported record %T", rec.Line(), rec)
	}
	if err != nil {
		return err
	}

	cv.buf.WriteString(b.String())
	return nil
}

// <ns id>
//
//	a TYPE ;
//	cnt:chars "TEXT" .
func (cv *conversion) emitTextSpan(b *strings.Builder, r *annotation.TextSpan) error {
	typ, err := cv.typeTerm(r.Type, r)
	if err != nil {
		return err
	}

	b.WriteString(cv.res.IRI(r.ID))
	b.WriteString("\n\ta ")
	b.WriteString(typ)

	text := strings.TrimSpace(r.Text)
	if text == "" {
		b.WriteString(" .\n\n")
		return nil
	}
	b.WriteString(" ;\n\t")
	b.WriteString(cv.cfg.Predicates.Chars)
	b.WriteString(" ")
	b.WriteString(turtle.Literal(text))
	b.WriteString(" .\n\n")
	return nil
}

func (cv *conversion) emitEvent(b *strings.Builder, r *annotation.Event) error {
	typ, err := cv.typeTerm(r.Type, r)
	if err != nil {
		return err
	}

	b.WriteString(cv.res.IRI(r.Trigger))
	b.WriteString("\n\ta ")
	b.WriteString(typ)
	b.WriteString(" ;\n")

	for _, arg := range r.Args {
		sym := cv.res.Resolve(arg.Role)
		switch {
		case sym.Empty():
			cv.log.Debugw("Dropping event argument with empty role",
				logger.FieldRecordID, r.ID,
				logger.FieldToken, arg.Role,
			)
			continue
		case sym.Kind == resolve.Unmatched:
			b.WriteString("\t")
			b.WriteString(cv.res.Expand(arg.Role, resolve.Entity(arg.Ref)))
		default:
			b.WriteString("\t")
			b.WriteString(term(sym))
			b.WriteString(" ")
			b.WriteString(cv.res.IRI(arg.Ref))
		}
		b.WriteString(" ;\n")
	}

	cv.writeLabel(b, r.ID)
	return nil
}

func (cv *conversion) emitRelation(b *strings.Builder, r *annotation.Relation) error {
	sym := cv.res.Resolve(r.Type)
	if sym.Empty() {
		return errors.NewMalformedRecordError("line %d: relation %s type %q has no usable characters", r.LineNo, r.ID, r.Type)
	}

	b.WriteString(cv.res.IRI(r.Arg1.Ref))
	b.WriteString(" ")
	if sym.Kind == resolve.Unmatched {
		b.WriteString(cv.res.Expand(r.Type, resolve.Entity(r.Arg2.Ref)))
	} else {
		b.WriteString(term(sym))
		b.WriteString(" ")
		b.WriteString(cv.res.IRI(r.Arg2.Ref))
	}
	b.WriteString(" ;\n")

	cv.writeLabel(b, r.ID)
	return nil
}

func (cv *conversion) emitNormalization(b *strings.Builder, r *annotation.Normalization) error {
	if cv.store == nil {
		return errors.Mark(errors.New("no normalization store configured"), errors.ErrStoreUnavailable)
	}

	scope, err := cv.store.ScopeOf(cv.ctx, r.DB, r.NormID)
	cv.metrics.StoreLookup("scope_of", err)
	if err != nil {
		return errors.WrapStoreUnavailable(err, "normalization scope")
	}

	pred := cv.cfg.Predicates
	norm := turtle.IRI(r.NormID)

	if scope == normdb.ScopeGlobal {
		// A local shadow stands in for the global entity inside this document
		shadow := cv.res.IRI(shadowName(r.NormID))
		if err := cv.registerEntity(r.DB, r.NormID); err != nil {
			return err
		}
		b.WriteString(shadow + " " + pred.ShadowOf + " " + norm + " .\n\n")
		b.WriteString(cv.res.IRI(r.Target) + " " + pred.SameAs + " " + shadow + " ;\n")
	} else {
		links, err := cv.store.GlobalLinksOf(cv.ctx, r.DB, r.NormID)
		cv.metrics.StoreLookup("global_links_of", err)
		if err != nil {
			return errors.WrapStoreUnavailable(err, "normalization global links")
		}
		for _, g := range links {
			if err := cv.registerEntity(r.DB, g); err != nil {
				return err
			}
		}

		b.WriteString(cv.res.IRI(r.Target) + " " + pred.SameAs + " " + norm)
		if len(links) == 0 {
			b.WriteString(" ;\n\n")
		} else {
			objects := make([]string, len(links))
			for i, g := range links {
				objects[i] = turtle.IRI(g)
			}
			b.WriteString(" .\n\n")
			b.WriteString(norm + " " + pred.ShadowOf + " " + strings.Join(objects, " , ") + " ;\n")
		}
	}

	cv.writeLabel(b, r.ID)
	return nil
}

func (cv *conversion) emitAttribute(b *strings.Builder, r *annotation.Attribute) error {
	sym := cv.res.Resolve(r.Type)

	var po string
	switch {
	case sym.Empty():
		return errors.NewMalformedRecordError("line %d: attribute %s type %q has no usable characters", r.LineNo, r.ID, r.Type)
	case sym.PassThrough():
		// Unmapped attribute names carry their class in the first value
		typ, err := cv.typeTerm(r.Values[0], r)
		if err != nil {
			return err
		}
		po = "a " + typ
	case sym.Kind == resolve.Unmatched:
		po = cv.res.Expand(r.Type, resolve.Value(r.Values...))
	default:
		po = "a " + term(sym)
	}

	b.WriteString(cv.res.IRI(r.Target))
	b.WriteString("\n\t")
	b.WriteString(po)
	b.WriteString(" ;\n")
	cv.writeLabel(b, r.ID)
	return nil
}

// registerEntity caches a global entity's description the first time it is seen
func (cv *conversion) registerEntity(dbName, id string) error {
	if cv.entities.has(id) {
		return nil
	}
	attrs, err := cv.store.AttributesOf(cv.ctx, dbName, id)
	cv.metrics.StoreLookup("attributes_of", err)
	if err != nil {
		return errors.WrapStoreUnavailable(err, "entity description")
	}
	cv.entities.add(id, attrs)
	return nil
}

// flushEntities writes one block per cached entity with a Name or Category
func (cv *conversion) flushEntities() {
	for _, id := range cv.entities.order {
		var pos []string
		for _, a := range cv.entities.attrs[id] {
			switch a.Key {
			case "Name":
				pos = append(pos, cv.cfg.Predicates.Label+" "+turtle.Literal(a.Value))
			case "Category":
				sym := cv.res.Resolve(a.Value)
				if sym.Empty() {
					continue
				}
				if sym.Kind == resolve.Unmatched {
					pos = append(pos, "a "+sym.Value)
				} else {
					pos = append(pos, "a "+term(sym))
				}
			}
		}
		if len(pos) == 0 {
			continue
		}
		cv.buf.WriteString(turtle.IRI(id))
		cv.buf.WriteString("\n\t")
		cv.buf.WriteString(strings.Join(pos, " ;\n\t"))
		cv.buf.WriteString(" .\n\n")
		cv.stats.Deferred++
	}
}

func (cv *conversion) writeLabel(b *strings.Builder, id string) {
	b.WriteString("\t")
	b.WriteString(cv.cfg.Predicates.Label)
	b.WriteString(" ")
	b.WriteString(turtle.Literal(id))
	b.WriteString(" .\n\n")
}

// typeTerm resolves a token used in rdf:type position. Tokens owned by a
// template tier have no plain mapping and are used as their sanitized self.
func (cv *conversion) typeTerm(token string, rec annotation.Record) (string, error) {
	sym := cv.res.Resolve(token)
	if sym.Empty() {
		return "", errors.NewMalformedRecordError(
			"line %d: %s type %q has no usable characters", rec.Line(), rec.RecordID(), token)
	}
	if sym.Kind == resolve.Unmatched {
		return sym.Value, nil
	}
	return term(sym), nil
}

// term renders a resolved symbol; namespace URIs need angle brackets
func term(sym resolve.Symbol) string {
	if sym.Tier == "namespaces" {
		return turtle.IRI(sym.Value)
	}
	return sym.Value
}

// shadowName derives the local shadow name from the last path segment of a
// normalized ID, falling back to the whole ID when that segment is empty.
func shadowName(normID string) string {
	tail := normID[strings.LastIndex(normID, "/")+1:]
	if resolve.Sanitize(tail) == "" {
		return normID
	}
	return tail
}
