package pages

// Builder accumulates fields and descriptions into pages, sealing the
// current page and opening a fresh one whenever an append would push it past
// the field or character budget.
type Builder struct {
	title  string
	sealed []Page
	cur    Page
	chars  int
	fields int
}

func NewBuilder(title string) *Builder {
	b := &Builder{title: truncate(title, MaxFieldName)}
	b.open()
	return b
}

func (b *Builder) open() {
	b.cur = Page{Title: b.title}
	b.chars = len(b.title)
	b.fields = 0
}

// WouldOverflow reports whether appending content of the given length would
// exceed the current page's budget.
func (b *Builder) WouldOverflow(length int) bool {
	return b.fields >= MaxFields || b.chars+length > MaxPageChars
}

// Seal closes the current page and starts a new one. Sealing an empty page
// is a no-op.
func (b *Builder) Seal() {
	if b.cur.empty() {
		return
	}
	b.sealed = append(b.sealed, b.cur)
	b.open()
}

// AddField appends a truncated name/value field, sealing first if the page
// budget would be exceeded.
func (b *Builder) AddField(name, value string) {
	name = truncate(name, MaxFieldName)
	value = truncate(value, MaxFieldValue)

	if b.WouldOverflow(len(name) + len(value)) {
		b.Seal()
	}

	b.cur.Fields = append(b.cur.Fields, Field{Name: name, Value: value})
	b.fields++
	b.chars += len(name) + len(value)
}

// SetDescription sets the current page's description, truncated to the
// platform limit.
func (b *Builder) SetDescription(desc string) {
	desc = truncate(desc, MaxDescription)
	b.chars -= len(b.cur.Description)
	b.cur.Description = desc
	b.chars += len(desc)
}

// SetImage attaches an image to the current page.
func (b *Builder) SetImage(url string) {
	b.cur.ImageURL = url
}

// Pages returns all sealed pages plus the in-progress page if it has
// content. Calling it repeatedly never duplicates a sealed page.
func (b *Builder) Pages() []Page {
	out := make([]Page, 0, len(b.sealed)+1)
	out = append(out, b.sealed...)
	if !b.cur.empty() {
		out = append(out, b.cur)
	}
	return out
}
