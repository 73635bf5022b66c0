package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"esspy/internal/diag"
	"esspy/internal/keywords"
	"esspy/internal/project"
	"esspy/internal/source"
	"esspy/internal/syntax"
	"esspy/internal/translit"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// DiskCache хранит результаты перевода на диске, ключ: хеш содержимого
// файла и таблицы ключевых слов. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached translation. Spans are stored as offsets and
// rebound to the file on load.
type DiskPayload struct {
	Schema uint16
	Path   string
	Text   string
	Mode   uint8
	Split  int
	Subs   []cachedSub
	Diags  []cachedDiag
}

type cachedSub struct {
	Start, End uint32
	From, To   string
	Out        int
	Keyword    bool
}

type cachedDiag struct {
	Severity   uint8
	Code       uint16
	Start, End uint32
	Message    string
	Notes      []cachedNote
	Fixes      []cachedFix
}

type cachedNote struct {
	Start, End uint32
	Msg        string
}

type cachedFix struct {
	Title string
	Edits []cachedNote // Msg: новый текст
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app>, or
// ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens the cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := key.String()
	return filepath.Join(c.dir, "translit", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll removes every cached translation.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "translit"))
}

// cacheKey covers the file content, the table and whether hints were on.
func cacheKey(file *source.File, table *keywords.Table, hints bool) project.Digest {
	var b strings.Builder
	for _, e := range table.Entries() {
		b.WriteString(e.Source)
		b.WriteByte(0)
		b.WriteString(e.Host)
		b.WriteByte(0)
	}
	if hints {
		b.WriteString("hints")
	}
	return project.Combine(project.Digest(file.Hash), project.DigestOf([]byte(b.String())))
}

func newDiskPayload(file *source.File, res translit.Result, bag *diag.Bag) *DiskPayload {
	p := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   file.Path,
		Text:   res.Text,
		Mode:   uint8(res.Plan.Mode),
		Split:  res.Plan.Split,
		Subs:   make([]cachedSub, len(res.Subs)),
	}
	for i, s := range res.Subs {
		p.Subs[i] = cachedSub{Start: s.Span.Start, End: s.Span.End, From: s.From, To: s.To, Out: s.Out, Keyword: s.Keyword}
	}
	for _, d := range bag.Items() {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			cf := cachedFix{Title: f.Title}
			for _, e := range f.Edits {
				cf.Edits = append(cf.Edits, cachedNote{Start: e.Span.Start, End: e.Span.End, Msg: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		p.Diags = append(p.Diags, cd)
	}
	return p
}

// valid reports whether every cached diagnostic has a known severity.
func (p *DiskPayload) valid() bool {
	for _, cd := range p.Diags {
		if !diag.Severity(cd.Severity).Valid() {
			return false
		}
	}
	return true
}

// restore rebuilds the result for file and replays cached diagnostics.
func (p *DiskPayload) restore(file *source.File, bag *diag.Bag) translit.Result {
	span := func(start, end uint32) source.Span { return source.Span{File: file.ID, Start: start, End: end} }
	res := translit.Result{
		Text: p.Text,
		Plan: syntax.Plan{Mode: syntax.Mode(p.Mode), Split: p.Split},
		File: file,
		Subs: make([]translit.Substitution, len(p.Subs)),
	}
	for i, s := range p.Subs {
		res.Subs[i] = translit.Substitution{Span: span(s.Start, s.End), From: s.From, To: s.To, Out: s.Out, Keyword: s.Keyword}
	}
	for _, cd := range p.Diags {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Start, cd.End), cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(span(n.Start, n.End), n.Msg)
		}
		for _, f := range cd.Fixes {
			edits := make([]diag.FixEdit, len(f.Edits))
			for i, e := range f.Edits {
				edits[i] = diag.FixEdit{Span: span(e.Start, e.End), NewText: e.Msg}
			}
			d = d.WithFix(f.Title, edits...)
		}
		bag.Add(d)
	}
	return res
}
