package mddoc

// tableGrid collects the cell strings of a table. Row 0 is the header row
// when the table has a header section.
func tableGrid(table *block) [][]string {
	var header []string
	var body [][]string
	for _, section := range table.children {
		switch section.kind {
		case blockThead:
			for _, row := range section.children {
				if row.kind != blockRow {
					continue
				}
				cells := rowCells(row, blockHeaderCell)
				if len(cells) > 0 && header == nil {
					header = cells
				}
			}
		case blockTbody:
			for _, row := range section.children {
				if row.kind != blockRow {
					continue
				}
				if cells := rowCells(row, blockCell); len(cells) > 0 {
					body = append(body, cells)
				}
			}
		}
	}
	grid := make([][]string, 0, len(body)+1)
	if header != nil {
		grid = append(grid, header)
	}
	return append(grid, body...)
}

func rowCells(row *block, kind blockKind) []string {
	var cells []string
	for _, cell := range row.children {
		if cell.kind != kind {
			continue
		}
		if text, ok := cell.text(); ok {
			cells = append(cells, text)
		}
	}
	return cells
}

// renderTable materializes the grid as a host table framed by two blank
// spacer paragraphs. A table without rows inserts nothing.
func (r *renderer) renderTable(b *block, at Cursor) (Cursor, error) {
	grid := tableGrid(b)
	if len(grid) == 0 {
		r.log.Debug("skipping table without rows")
		return at, nil
	}
	rows, cols := len(grid), len(grid[0])
	start := at
	at, err := r.insertText(at, "", r.styles.Spacer)
	if err != nil {
		return start, err
	}
	t, err := r.host.InsertTable(at, rows, cols)
	if err != nil {
		return start, err
	}
	for i, row := range grid {
		format := r.styles.BodyCell
		if i == 0 {
			format = r.styles.HeaderCell
		}
		for j := 0; j < cols; j++ {
			text := ""
			if j < len(row) {
				text = row[j]
			}
			if err := t.SetCell(i, j, text, format); err != nil {
				return start, err
			}
		}
	}
	at, err = r.insertText(t.End(), "", r.styles.Spacer)
	if err != nil {
		return start, err
	}
	return at, nil
}
