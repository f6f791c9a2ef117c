package annotation

import (
	"strings"

	"github.com/teranos/standoff/errors"
)

// ErrUnknownKind is returned for lines whose discriminator is not T, E, R, N or A.
// It is marked errors.ErrMalformedRecord.
var ErrUnknownKind = errors.Mark(errors.New("unknown record kind"), errors.ErrMalformedRecord)

// minFields is the field count below which a line is malformed
var minFields = map[Kind]int{
	KindTextSpan:      4,
	KindEvent:         2,
	KindRelation:      4,
	KindNormalization: 4,
	KindAttribute:     4,
}

// ParseLine turns one line into a record.
// Empty or whitespace-only lines return nil, nil. The kind is the first
// byte of the line, so indented lines are unknown.
func ParseLine(lineNo int, line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}

	kind := Kind(line[0])
	need, ok := minFields[kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "line %d: %q", lineNo, line[:1])
	}
	if len(fields) < need {
		return nil, errors.NewMalformedRecordError(
			"line %d: %s %s needs at least %d fields, got %d", lineNo, kind, fields[0], need, len(fields))
	}

	h := header{LineNo: lineNo, ID: fields[0], Type: fields[1]}

	switch kind {
	case KindTextSpan:
		return &TextSpan{
			header: h,
			Start:  fields[2],
			End:    fields[3],
			Text:   strings.Join(fields[4:], " "),
		}, nil

	case KindEvent:
		typ, trigger, ok := strings.Cut(fields[1], ":")
		if !ok || typ == "" || trigger == "" {
			return nil, errors.NewMalformedRecordError(
				"line %d: event %s needs type:trigger, got %q", lineNo, fields[0], fields[1])
		}
		h.Type = typ
		ev := &Event{header: h, Trigger: trigger}
		for _, f := range fields[2:] {
			if arg, ok := parseArgument(f); ok {
				ev.Args = append(ev.Args, arg)
			}
		}
		return ev, nil

	case KindRelation:
		arg1, ok1 := parseArgument(fields[2])
		arg2, ok2 := parseArgument(fields[3])
		if !ok1 || !ok2 {
			return nil, errors.NewMalformedRecordError(
				"line %d: relation %s needs role:id arguments, got %q %q", lineNo, fields[0], fields[2], fields[3])
		}
		return &Relation{header: h, Arg1: arg1, Arg2: arg2}, nil

	case KindNormalization:
		db, id, ok := strings.Cut(fields[3], ":")
		if !ok || db == "" || id == "" {
			return nil, errors.NewMalformedRecordError(
				"line %d: normalization %s needs db:id, got %q", lineNo, fields[0], fields[3])
		}
		return &Normalization{
			header: h,
			Target: fields[2],
			DB:     db,
			NormID: id,
			Text:   strings.Join(fields[4:], " "),
		}, nil

	default: // KindAttribute
		return &Attribute{
			header: h,
			Target: fields[2],
			Values: append([]string(nil), fields[3:]...),
		}, nil
	}
}

// parseArgument splits role:ref; both sides must be non-empty
func parseArgument(field string) (Argument, bool) {
	role, ref, ok := strings.Cut(field, ":")
	if !ok || role == "" || ref == "" {
		return Argument{}, false
	}
	return Argument{Role: role, Ref: ref}, true
}
