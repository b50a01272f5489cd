package server

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nainya/depotview/pkg/history"
	"github.com/nainya/depotview/pkg/query"
	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/revision"
	"github.com/nainya/depotview/pkg/tagged"
	"github.com/nainya/depotview/pkg/view"
	"github.com/nainya/depotview/pkg/ztag"
)

// Request field names shared by Project and Resolve.
const (
	fieldRecords = "records"
	fieldZtag    = "ztag"
	fieldJSON    = "json"
	fieldError   = "error"
)

// resultSetFromStruct builds the result set a request carries. Records come
// from exactly one of records (a list of objects, keys sorted), ztag (raw
// -ztag text, key order kept) or json (-Mj lines, key order kept).
func resultSetFromStruct(req *structpb.Struct) (*result.ResultSet, error) {
	fields := req.GetFields()
	var sources []string
	for _, name := range []string{fieldRecords, fieldZtag, fieldJSON} {
		if _, ok := fields[name]; ok {
			sources = append(sources, name)
		}
	}
	if len(sources) > 1 {
		return nil, fmt.Errorf("only one of %s may be set", strings.Join(sources, ", "))
	}

	var rs *result.ResultSet
	var err error
	switch {
	case fields[fieldZtag] != nil:
		rs, err = ztag.Decode(strings.NewReader(fields[fieldZtag].GetStringValue()))
	case fields[fieldJSON] != nil:
		rs, err = ztag.DecodeJSON(strings.NewReader(fields[fieldJSON].GetStringValue()))
	case fields[fieldRecords] != nil && fields[fieldRecords].GetListValue() == nil:
		err = fmt.Errorf("%s must be a list", fieldRecords)
	default:
		rs, err = recordsFromList(fields[fieldRecords].GetListValue())
	}
	if err != nil {
		return nil, err
	}

	if e := fields[fieldError].GetStringValue(); e != "" {
		rs.AddText(result.StdErr, e, ztag.ErrorSeverity)
	}
	return rs, nil
}

func recordsFromList(list *structpb.ListValue) (*result.ResultSet, error) {
	rs := result.New()
	for i, v := range list.GetValues() {
		obj := v.GetStructValue()
		if obj == nil {
			return nil, fmt.Errorf("records[%d] is not an object", i)
		}
		m := make(map[string]string, len(obj.GetFields()))
		for k, fv := range obj.GetFields() {
			s, err := scalarText(fv)
			if err != nil {
				return nil, fmt.Errorf("records[%d].%s: %w", i, k, err)
			}
			m[k] = s
		}
		rs.Append(tagged.FromMap(m))
	}
	return rs, nil
}

func scalarText(v *structpb.Value) (string, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return strconv.FormatInt(int64(n), 10), nil
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue), nil
	case *structpb.Value_NullValue, nil:
		return "", nil
	}
	return "", fmt.Errorf("nested values are not allowed")
}

// queryFromStruct reads the optional where, order_by, descending, limit
// and offset fields.
func queryFromStruct(req *structpb.Struct) (query.Query, bool, error) {
	fields := req.GetFields()
	qb := query.NewQueryBuilder()
	used := false

	for i, w := range fields["where"].GetListValue().GetValues() {
		f, err := query.ParseFilter(w.GetStringValue())
		if err != nil {
			return query.Query{}, false, fmt.Errorf("where[%d]: %w", i, err)
		}
		qb.Filter(f)
		used = true
	}
	if v, ok := fields["order_by"]; ok {
		qb.OrderBy(v.GetStringValue(), fields["descending"].GetBoolValue())
		used = true
	}
	if v, ok := fields["limit"]; ok {
		qb.Limit(int(v.GetNumberValue()))
		used = true
	}
	if v, ok := fields["offset"]; ok {
		if v.GetNumberValue() < 0 {
			return query.Query{}, false, fmt.Errorf("offset must not be negative")
		}
		qb.Offset(int(v.GetNumberValue()))
		used = true
	}
	return qb.Build(), used, nil
}

// revisionStruct describes r. Bounds of a range nest.
func revisionStruct(r revision.Revision) map[string]any {
	out := map[string]any{
		"matched":   r.Valid(),
		"kind":      r.Kind().String(),
		"canonical": r.String(),
	}
	switch r.Kind() {
	case revision.KindNumber, revision.KindChangelist:
		out["number"] = r.Value()
	case revision.KindLabel:
		out["label"] = r.LabelName()
	case revision.KindDate:
		out["date"] = r.Time().Format(revision.DateLayout)
		out["unix"] = r.Time().Unix()
	case revision.KindRange:
		if s, ok := r.Start(); ok {
			out["start"] = revisionStruct(s)
		}
		if e, ok := r.End(); ok {
			out["end"] = revisionStruct(e)
		}
	}
	return out
}

// nodeMap renders the properties of a projected node.
func nodeMap(p view.Projector) map[string]any {
	props := p.Properties()
	m := make(map[string]any, len(props))
	for _, prop := range props {
		m[prop.Name] = plainValue(prop.Value)
	}
	return m
}

// plainValue converts property values to the types structpb accepts.
func plainValue(v any) any {
	switch x := v.(type) {
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	}
	return v
}

func entryStruct(e *history.Entry) map[string]any {
	m := map[string]any{
		"depot_file": e.DepotFile,
		"rev":        e.Rev,
		"change":     e.Change,
		"action":     e.Action,
		"type":       e.Type,
		"deleted":    e.Deleted(),
	}
	if !e.Time.IsZero() {
		m["time"] = e.Time.Unix()
	}
	if e.User != "" {
		m["user"] = e.User
	}
	if e.Description != "" {
		m["desc"] = e.Description
	}
	return m
}
