package document

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pkt.systems/mddoc"
)

func TestBatchCommitIsAtomic(t *testing.T) {
	t.Parallel()
	doc := New()
	b := doc.Begin()
	p, err := b.InsertParagraph(doc.End(), "hello")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := p.AppendRun(" world", mddoc.RunFormat{Bold: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := doc.Len(); got != 0 {
		t.Fatalf("expected no blocks before commit, got %d", got)
	}
	if err := b.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	want := []Block{{Paragraph: &Paragraph{Runs: []Run{
		{Text: "hello"},
		{Text: " world", Format: mddoc.RunFormat{Bold: true}},
	}}}}
	if diff := cmp.Diff(want, doc.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertParagraphEmptyTextHasNoRun(t *testing.T) {
	t.Parallel()
	doc := New()
	b := doc.Begin()
	p, err := b.InsertParagraph(doc.End(), "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := p.AppendRun("", mddoc.RunFormat{}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := b.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	blocks := doc.Snapshot()
	if len(blocks) != 1 || blocks[0].Paragraph == nil {
		t.Fatalf("expected one paragraph, got %+v", blocks)
	}
	if n := len(blocks[0].Paragraph.Runs); n != 0 {
		t.Fatalf("expected no runs, got %d", n)
	}
}

func TestHandleEndTracksEarlierInsertions(t *testing.T) {
	t.Parallel()
	doc := New()
	b := doc.Begin()
	first, err := b.InsertParagraph(mddoc.CursorAt(0), "b")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := first.End().Pos(); got != 1 {
		t.Fatalf("expected end 1, got %d", got)
	}
	if _, err := b.InsertParagraph(mddoc.CursorAt(0), "a"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := first.End().Pos(); got != 2 {
		t.Fatalf("expected end 2 after insert before, got %d", got)
	}
	tbl, err := b.InsertTable(first.End(), 1, 1)
	if err != nil {
		t.Fatalf("insert table: %v", err)
	}
	if got := tbl.End().Pos(); got != 3 {
		t.Fatalf("expected table end 3, got %d", got)
	}
	if err := b.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got := doc.PlainText(); got != "a\nb\n\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestBatchErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		run  func(b *Batch) error
		want error
	}{
		{
			name: "cursor past end",
			run: func(b *Batch) error {
				_, err := b.InsertParagraph(mddoc.CursorAt(1), "x")
				return err
			},
			want: ErrBadCursor,
		},
		{
			name: "negative cursor",
			run: func(b *Batch) error {
				_, err := b.InsertTable(mddoc.CursorAt(-1), 1, 1)
				return err
			},
			want: ErrBadCursor,
		},
		{
			name: "zero rows",
			run: func(b *Batch) error {
				_, err := b.InsertTable(mddoc.CursorAt(0), 0, 2)
				return err
			},
			want: ErrBadShape,
		},
		{
			name: "cell outside table",
			run: func(b *Batch) error {
				tbl, err := b.InsertTable(mddoc.CursorAt(0), 2, 2)
				if err != nil {
					return err
				}
				return tbl.SetCell(2, 0, "x", mddoc.CellFormat{})
			},
			want: ErrBadShape,
		},
		{
			name: "use after commit",
			run: func(b *Batch) error {
				p, err := b.InsertParagraph(mddoc.CursorAt(0), "x")
				if err != nil {
					return err
				}
				if err := b.Commit(context.Background()); err != nil {
					return err
				}
				return p.AppendRun("y", mddoc.RunFormat{})
			},
			want: ErrBatchDone,
		},
		{
			name: "commit after discard",
			run: func(b *Batch) error {
				b.Discard()
				return b.Commit(context.Background())
			},
			want: ErrBatchDone,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.run(New().Begin())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCommitStale(t *testing.T) {
	t.Parallel()
	doc := New()
	first := doc.Begin()
	second := doc.Begin()
	if _, err := first.InsertParagraph(mddoc.CursorAt(0), "first"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := second.InsertParagraph(mddoc.CursorAt(0), "second"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := first.Commit(context.Background()); err != nil {
		t.Fatalf("commit first: %v", err)
	}
	if err := second.Commit(context.Background()); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if got := doc.PlainText(); got != "first\n" {
		t.Fatalf("stale commit changed document: %q", got)
	}
}

func TestCommitCanceledContext(t *testing.T) {
	t.Parallel()
	doc := New()
	b := doc.Begin()
	if _, err := b.InsertParagraph(mddoc.CursorAt(0), "x"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Commit(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if doc.Len() != 0 {
		t.Fatalf("canceled commit changed document")
	}
	if err := b.Commit(context.Background()); err != nil {
		t.Fatalf("retry commit: %v", err)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()
	doc := New()
	b := doc.Begin()
	tbl, err := b.InsertTable(mddoc.CursorAt(0), 1, 1)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tbl.SetCell(0, 0, "cell", mddoc.CellFormat{}); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := b.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	snap := doc.Snapshot()
	snap[0].Table.Rows[0][0].Text = "changed"
	if got := doc.Snapshot()[0].Table.Rows[0][0].Text; got != "cell" {
		t.Fatalf("snapshot aliased document state: %q", got)
	}
}

func TestConcurrentReadersSeeCommittedState(t *testing.T) {
	t.Parallel()
	doc := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if n := doc.Len(); n != 0 && n != 2 {
					t.Errorf("observed partial commit with %d blocks", n)
					return
				}
			}
		}()
	}
	b := doc.Begin()
	p, err := b.InsertParagraph(mddoc.CursorAt(0), "a")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := b.InsertParagraph(p.End(), "b"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	wg.Wait()
}
