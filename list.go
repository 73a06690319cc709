package mddoc

import (
	"strconv"

	"go.uber.org/zap"
)

// renderList emits one indented paragraph per list item that carries inline
// content. Only the flat text of the item's first paragraph is used; nested
// lists follow their parent item at the same indent with their own prefix
// and counter.
func (r *renderer) renderList(list *block, at Cursor) (Cursor, error) {
	ordered := list.kind == blockOrderedList
	n := 0
	for _, item := range list.children {
		if item.kind != blockItem {
			continue
		}
		if text, ok := itemText(item); ok {
			n++
			prefix := BulletPrefix
			if ordered {
				prefix = strconv.Itoa(n) + ". "
			}
			var err error
			if at, err = r.insertText(at, prefix+text, r.styles.ListItem); err != nil {
				return at, err
			}
		} else {
			r.log.Debug("skipping list item without inline content")
		}
		for _, child := range item.children {
			if child.kind != blockBulletList && child.kind != blockOrderedList {
				if child.kind != blockParagraph {
					r.log.Debug("dropping block inside list item", zap.Uint8("kind", uint8(child.kind)))
				}
				continue
			}
			var err error
			if at, err = r.renderList(child, at); err != nil {
				return at, err
			}
		}
	}
	return at, nil
}

// itemText returns the inline content of the item's first paragraph.
func itemText(item *block) (string, bool) {
	for _, child := range item.children {
		if child.kind != blockParagraph {
			continue
		}
		return child.text()
	}
	return "", false
}
