package sqlitegraph

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/graphsession/internal/graphdriver"
)

type tx struct {
	driver *Driver
	sqltx  *sql.Tx
	open   bool
}

func (t *tx) IsOpen() bool { return t.open }

func (t *tx) Success(_ context.Context) error {
	if !t.open {
		return fmt.Errorf("sqlitegraph: transaction already closed")
	}
	t.open = false
	return t.sqltx.Commit()
}

func (t *tx) Failure(_ context.Context) error {
	if !t.open {
		return nil
	}
	t.open = false
	return t.sqltx.Rollback()
}

func (t *tx) Close(_ context.Context) error {
	if !t.open {
		return nil
	}
	t.open = false
	return t.sqltx.Rollback()
}

func (t *tx) Run(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	switch classify(stmt.Text) {
	case kindReservePool:
		return nil, fmt.Errorf("sqlitegraph: sequence pool reservation must use idprovider.Refiller, not Tx.Run")
	case kindInsertVertex:
		return t.insertVertex(ctx, stmt)
	case kindUpdateVertex:
		return t.updateVertex(ctx, stmt)
	case kindDeleteVertex:
		return t.deleteVertex(ctx, stmt)
	case kindInsertEdge:
		return t.insertEdge(ctx, stmt)
	case kindUpdateEdge:
		return t.updateEdge(ctx, stmt)
	case kindDeleteEdge:
		return t.deleteEdge(ctx, stmt)
	case kindMatchVertices:
		return t.matchVertices(ctx, stmt)
	case kindMatchEdges:
		return t.matchEdges(ctx, stmt)
	case kindTraverseEdges:
		return t.traverseEdges(ctx, stmt)
	case kindCreateIndex:
		// No secondary index structures exist over the JSON-encoded
		// props column; accepted as a no-op so callers exercising
		// graph.Graph.CreateIndex against this reference driver do
		// not need a special case.
		return newStream(nil), nil
	default:
		return nil, fmt.Errorf("sqlitegraph: unrecognized statement shape: %q", stmt.Text)
	}
}

func (t *tx) idField() string { return t.driver.idField }

func encodeProps(props map[string]any, idField string) (string, error) {
	clean := make(map[string]any, len(props))
	for k, v := range props {
		if k == idField {
			continue
		}
		clean[k] = v
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeProps(s string) (map[string]any, error) {
	out := make(map[string]any)
	if s == "" {
		return out, nil
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	for k, v := range out {
		out[k] = normalizeJSONNumber(v)
	}
	return out, nil
}

// normalizeJSONNumber converts json.Number leaves (decoded with
// UseNumber to avoid collapsing every number to float64) into int64
// when they carry no fractional part, and float64 otherwise, so a
// stored graphvalue.Int survives a round trip through the JSON props
// column as an Int rather than turning into a Float.
func normalizeJSONNumber(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeJSONNumber(e)
		}
		return out
	default:
		return v
	}
}

func idToText(id any) string { return fmt.Sprintf("%v", id) }

func (t *tx) insertVertex(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	labels := cutLabelSegment(stmt.Text, "CREATE (", " $props)")
	props, _ := stmt.Params["props"].(map[string]any)
	id := props[t.idField()]
	propsJSON, err := encodeProps(props, t.idField())
	if err != nil {
		return nil, err
	}
	_, err = t.sqltx.ExecContext(ctx,
		"INSERT INTO vertices(id, labels, props) VALUES (?, ?, ?)",
		idToText(id), strings.Join(labels, ","), propsJSON)
	if err != nil {
		return nil, err
	}
	return newStream(nil), nil
}

func (t *tx) updateVertex(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	id := stmt.Params["id"]
	row := t.sqltx.QueryRowContext(ctx, "SELECT labels, props FROM vertices WHERE id = ?", idToText(id))
	var labelsCSV, propsJSON string
	if err := row.Scan(&labelsCSV, &propsJSON); err != nil {
		if err == sql.ErrNoRows {
			return newStream(nil), nil
		}
		return nil, err
	}
	labels := splitCSV(labelsCSV)

	addedSeg := segmentBetween(stmt.Text, " SET n", " REMOVE n")
	added := parseLabels(addedSeg)
	removedSeg := segmentAfter(stmt.Text, " REMOVE n")
	removed := parseLabels(removedSeg)
	for _, l := range added {
		if !containsStr(labels, l) {
			labels = append(labels, l)
		}
	}
	for _, l := range removed {
		labels = removeStr(labels, l)
	}

	if props, ok := stmt.Params["props"].(map[string]any); ok {
		newJSON, err := encodeProps(props, t.idField())
		if err != nil {
			return nil, err
		}
		propsJSON = newJSON
	}

	if _, err := t.sqltx.ExecContext(ctx,
		"UPDATE vertices SET labels = ?, props = ? WHERE id = ?",
		strings.Join(labels, ","), propsJSON, idToText(id)); err != nil {
		return nil, err
	}
	return newStream(nil), nil
}

func (t *tx) deleteVertex(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	id := idToText(stmt.Params["id"])
	if _, err := t.sqltx.ExecContext(ctx, "DELETE FROM edges WHERE out_id = ? OR in_id = ?", id, id); err != nil {
		return nil, err
	}
	if _, err := t.sqltx.ExecContext(ctx, "DELETE FROM vertices WHERE id = ?", id); err != nil {
		return nil, err
	}
	return newStream(nil), nil
}

func (t *tx) insertEdge(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	label := firstBacktickAfter(stmt.Text, "CREATE (out)-[:")
	props, _ := stmt.Params["props"].(map[string]any)
	id := props[t.idField()]
	propsJSON, err := encodeProps(props, t.idField())
	if err != nil {
		return nil, err
	}
	_, err = t.sqltx.ExecContext(ctx,
		"INSERT INTO edges(id, label, out_id, in_id, props) VALUES (?, ?, ?, ?, ?)",
		idToText(id), label, idToText(stmt.Params["outId"]), idToText(stmt.Params["inId"]), propsJSON)
	if err != nil {
		return nil, err
	}
	return newStream(nil), nil
}

func (t *tx) updateEdge(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	props, _ := stmt.Params["props"].(map[string]any)
	propsJSON, err := encodeProps(props, t.idField())
	if err != nil {
		return nil, err
	}
	_, err = t.sqltx.ExecContext(ctx, "UPDATE edges SET props = ? WHERE id = ?", propsJSON, idToText(stmt.Params["id"]))
	return newStream(nil), err
}

func (t *tx) deleteEdge(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	_, err := t.sqltx.ExecContext(ctx, "DELETE FROM edges WHERE id = ?", idToText(stmt.Params["id"]))
	return newStream(nil), err
}

func (t *tx) rowToNode(id, labelsCSV, propsJSON string) (*node, error) {
	props, err := decodeProps(propsJSON)
	if err != nil {
		return nil, err
	}
	props[t.idField()] = idFromText(id)
	return &node{id: idFromText(id), labels: splitCSV(labelsCSV), props: props}, nil
}

func (t *tx) rowToRelationship(id, label, outID, inID, propsJSON string) (*relationship, error) {
	props, err := decodeProps(propsJSON)
	if err != nil {
		return nil, err
	}
	props[t.idField()] = idFromText(id)
	return &relationship{id: idFromText(id), typ: label, outID: idFromText(outID), inID: idFromText(inID), props: props}, nil
}

func (t *tx) matchVertices(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	rows, err := t.sqltx.QueryContext(ctx, "SELECT id, labels, props FROM vertices")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids, filterByID := idSet(stmt.Params["ids"])
	var vals []graphdriver.Value
	for rows.Next() {
		var id, labelsCSV, propsJSON string
		if err := rows.Scan(&id, &labelsCSV, &propsJSON); err != nil {
			return nil, err
		}
		if filterByID {
			if _, ok := ids[id]; !ok {
				continue
			}
		}
		n, err := t.rowToNode(id, labelsCSV, propsJSON)
		if err != nil {
			return nil, err
		}
		if !t.driver.partition.ContainsVertex(n.labels) {
			continue
		}
		vals = append(vals, value{n})
	}
	return newStream(vals), rows.Err()
}

func (t *tx) matchEdges(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	rows, err := t.sqltx.QueryContext(ctx, "SELECT id, label, out_id, in_id, props FROM edges")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids, filterByID := idSet(stmt.Params["ids"])
	var vals []graphdriver.Value
	for rows.Next() {
		var id, label, outID, inID, propsJSON string
		if err := rows.Scan(&id, &label, &outID, &inID, &propsJSON); err != nil {
			return nil, err
		}
		if filterByID {
			if _, ok := ids[id]; !ok {
				continue
			}
		}
		outLabels, err := t.vertexLabels(ctx, outID)
		if err != nil {
			return nil, err
		}
		if !t.driver.partition.ContainsVertex(outLabels) {
			continue
		}
		inLabels, err := t.vertexLabels(ctx, inID)
		if err != nil {
			return nil, err
		}
		if !t.driver.partition.ContainsVertex(inLabels) {
			continue
		}
		r, err := t.rowToRelationship(id, label, outID, inID, propsJSON)
		if err != nil {
			return nil, err
		}
		vals = append(vals, value{r})
	}
	return newStream(vals), rows.Err()
}

func (t *tx) traverseEdges(ctx context.Context, stmt graphdriver.Statement) (graphdriver.RecordStream, error) {
	nid := idToText(stmt.Params["nid"])
	dir := traversalDirection(stmt.Text)
	labels := traversalEdgeLabels(stmt.Text)
	excludeIDs, hasExclude := idSet(stmt.Params["excludeIds"])

	query := "SELECT id, label, out_id, in_id, props FROM edges WHERE "
	switch dir {
	case "out":
		query += "out_id = ?"
	case "in":
		query += "in_id = ?"
	default:
		query += "(out_id = ? OR in_id = ?)"
	}
	args := []any{nid}
	if dir == "both" {
		args = append(args, nid)
	}
	rows, err := t.sqltx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vals []graphdriver.Value
	for rows.Next() {
		var id, label, outID, inID, propsJSON string
		if err := rows.Scan(&id, &label, &outID, &inID, &propsJSON); err != nil {
			return nil, err
		}
		if hasExclude {
			if _, ok := excludeIDs[id]; ok {
				continue
			}
		}
		if len(labels) > 0 && !containsStr(labels, label) {
			continue
		}
		other := inID
		if outID != nid {
			other = outID
		}
		otherLabels, err := t.vertexLabels(ctx, other)
		if err != nil {
			return nil, err
		}
		if !t.driver.partition.ContainsVertex(otherLabels) {
			continue
		}
		r, err := t.rowToRelationship(id, label, outID, inID, propsJSON)
		if err != nil {
			return nil, err
		}
		vals = append(vals, value{r})
	}
	return newStream(vals), rows.Err()
}

func (t *tx) vertexLabels(ctx context.Context, id string) ([]string, error) {
	row := t.sqltx.QueryRowContext(ctx, "SELECT labels FROM vertices WHERE id = ?", id)
	var labelsCSV string
	if err := row.Scan(&labelsCSV); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return splitCSV(labelsCSV), nil
}

func idSet(raw any) (map[string]struct{}, bool) {
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]struct{}, len(list))
	for _, v := range list {
		out[idToText(v)] = struct{}{}
	}
	return out, true
}

// idFromText recovers the natural Go representation of an id stored
// in a TEXT column: a Sequence provider's ids round-trip through
// int64, while a Native provider's UUID strings are returned as-is.
func idFromText(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func containsStr(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func removeStr(set []string, s string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func segmentBetween(text, startMarker, endMarker string) string {
	idx := strings.Index(text, startMarker)
	if idx < 0 {
		return ""
	}
	after := text[idx+len(startMarker):]
	if endIdx := strings.Index(after, endMarker); endIdx >= 0 {
		return after[:endIdx]
	}
	return after
}

func segmentAfter(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	return text[idx+len(marker):]
}
